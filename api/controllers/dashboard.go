package controllers

import (
	"net/http"

	"github.com/angelmondragon/kasir-pos/api/responses"
	"github.com/angelmondragon/kasir-pos/api/validators"
	"github.com/angelmondragon/kasir-pos/internal/dashboard"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
)

func OwnerDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Owner(r.Context()))
	}
}

// AdminDashboard accepts ?q= to filter tenants by name or owner.
func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		search := validators.SanitizeString(r.URL.Query().Get("q"), 100)
		responses.WriteSuccess(w, svc.Admin(r.Context(), search))
	}
}
