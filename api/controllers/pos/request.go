package pos

import (
	"github.com/angelmondragon/kasir-pos/api/validators"
	possvc "github.com/angelmondragon/kasir-pos/internal/pos"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
)

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type adjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type applyDiscountRequest struct {
	Code string `json:"code" validate:"required"`
}

type attachMemberRequest struct {
	MemberID string `json:"member_id" validate:"required"`
}

type redeemPointsRequest struct {
	Points int64 `json:"points" validate:"gte=0"`
}

type checkoutRequest struct {
	PaymentType    string `json:"payment_type" validate:"required"`
	AmountReceived int64  `json:"amount_received" validate:"gte=0"`
}

func (p checkoutRequest) toInput() (possvc.CheckoutRequest, error) {
	pt, err := enums.ParsePaymentType(validators.SanitizeString(p.PaymentType, 16))
	if err != nil {
		return possvc.CheckoutRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment type").
			WithDetails(map[string]any{"payment_type": p.PaymentType})
	}
	return possvc.CheckoutRequest{PaymentType: pt, AmountReceived: p.AmountReceived}, nil
}

type checkoutResponse struct {
	Accepted bool           `json:"accepted"`
	Terminal possvc.Snapshot `json:"terminal"`
}
