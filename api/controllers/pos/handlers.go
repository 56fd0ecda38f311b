package pos

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/kasir-pos/api/middleware"
	"github.com/angelmondragon/kasir-pos/api/responses"
	"github.com/angelmondragon/kasir-pos/api/validators"
	possvc "github.com/angelmondragon/kasir-pos/internal/pos"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
)

const (
	maxSearchLen  = 100
	defaultLimit  = 10
	maxLimit      = 50
	productIDPath = "productId"
)

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable")
}

// sessionID returns the caller's session id or writes an unauthorized error.
func sessionID(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	id := middleware.SessionIDFromContext(r.Context())
	if id == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required"))
		return "", false
	}
	return id, true
}

// snapshotHandler covers the endpoints that take no body and return the terminal.
func snapshotHandler(svc possvc.Service, logg *logger.Logger, op func(possvc.Service, *http.Request, string) (possvc.Snapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		sid, ok := sessionID(w, r, logg)
		if !ok {
			return
		}
		snap, err := op(svc, r, sid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// PosCatalog lists products filtered by ?q= and ?category=.
func PosCatalog(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		q := r.URL.Query()
		// search text is matched as typed, spaces included
		search := validators.Truncate(q.Get("q"), maxSearchLen)
		view, err := svc.Catalog(r.Context(), search, validators.SanitizeString(q.Get("category"), maxSearchLen))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// PosDiscounts lists the promo codes currently offered.
func PosDiscounts(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		list, err := svc.Discounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// PosMemberSearch looks members up by ?q= with an optional ?limit=.
func PosMemberSearch(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultLimit, 1, maxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		members, err := svc.SearchMembers(r.Context(), validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLen), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, members)
	}
}

func PosTerminal(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return snapshotHandler(svc, logg, func(svc possvc.Service, r *http.Request, sid string) (possvc.Snapshot, error) {
		return svc.Terminal(r.Context(), sid)
	})
}

func PosAddItem(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return snapshotHandler(svc, logg, func(svc possvc.Service, r *http.Request, sid string) (possvc.Snapshot, error) {
		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return possvc.Snapshot{}, err
		}
		return svc.AddItem(r.Context(), sid, body.ProductID)
	})
}

func PosAdjustQuantity(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return snapshotHandler(svc, logg, func(svc possvc.Service, r *http.Request, sid string) (possvc.Snapshot, error) {
		var body adjustQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return possvc.Snapshot{}, err
		}
		return svc.AdjustQuantity(r.Context(), sid, chi.URLParam(r, productIDPath), body.Delta)
	})
}

func PosRemoveItem(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return snapshotHandler(svc, logg, func(svc possvc.Service, r *http.Request, sid string) (possvc.Snapshot, error) {
		return svc.RemoveItem(r.Context(), sid, chi.URLParam(r, productIDPath))
	})
}

func PosApplyDiscount(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return snapshotHandler(svc, logg, func(svc possvc.Service, r *http.Request, sid string) (possvc.Snapshot, error) {
		var body applyDiscountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return possvc.Snapshot{}, err
		}
		return svc.ApplyDiscount(r.Context(), sid, body.Code)
	})
}

func PosClearDiscount(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return snapshotHandler(svc, logg, func(svc possvc.Service, r *http.Request, sid string) (possvc.Snapshot, error) {
		return svc.ClearDiscount(r.Context(), sid)
	})
}

func PosAttachMember(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return snapshotHandler(svc, logg, func(svc possvc.Service, r *http.Request, sid string) (possvc.Snapshot, error) {
		var body attachMemberRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return possvc.Snapshot{}, err
		}
		return svc.AttachMember(r.Context(), sid, body.MemberID)
	})
}

func PosDetachMember(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return snapshotHandler(svc, logg, func(svc possvc.Service, r *http.Request, sid string) (possvc.Snapshot, error) {
		return svc.DetachMember(r.Context(), sid)
	})
}

func PosRedeemPoints(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return snapshotHandler(svc, logg, func(svc possvc.Service, r *http.Request, sid string) (possvc.Snapshot, error) {
		var body redeemPointsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return possvc.Snapshot{}, err
		}
		return svc.RedeemPoints(r.Context(), sid, body.Points)
	})
}

// PosCheckout starts a payment. A started payment answers 202 and the client
// polls the terminal for the outcome; an ignored press answers 200.
func PosCheckout(svc possvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		sid, ok := sessionID(w, r, logg)
		if !ok {
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, accepted, err := svc.Checkout(r.Context(), sid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if accepted {
			status = http.StatusAccepted
		}
		responses.WriteSuccessStatus(w, status, checkoutResponse{Accepted: accepted, Terminal: snap})
	}
}
