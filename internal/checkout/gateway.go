package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/kasir-pos/pkg/enums"
	"github.com/google/uuid"
)

// PaymentRequest is one charge attempt for a sale.
type PaymentRequest struct {
	OrderNumber int               `json:"order_number"`
	Amount      int64             `json:"amount"`
	PaymentType enums.PaymentType `json:"payment_type"`
	// AmountReceived is the cash handed over. Zero means exact change.
	AmountReceived int64 `json:"amount_received,omitempty"`
}

// PaymentResult is what the gateway reports back.
type PaymentResult struct {
	Outcome   enums.PaymentOutcome `json:"outcome"`
	Message   string               `json:"message,omitempty"`
	InvoiceNo string               `json:"invoice_no,omitempty"`
	Change    int64                `json:"change"`
	PaidAt    time.Time            `json:"paid_at,omitempty"`
}

// Gateway charges a payment. Implementations must return promptly once ctx is done.
type Gateway interface {
	Charge(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}

// Classify folds a gateway error into a result. Deadlines become timed_out;
// any other error means the gateway could not be reached.
func Classify(res PaymentResult, err error) PaymentResult {
	if err == nil {
		if !res.Outcome.IsValid() {
			return PaymentResult{Outcome: enums.PaymentOutcomeNetworkUnavailable, Message: FailureMessage(enums.PaymentOutcomeNetworkUnavailable, "")}
		}
		if !res.Outcome.Succeeded() && res.Message == "" {
			res.Message = FailureMessage(res.Outcome, "")
		}
		return res
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return PaymentResult{Outcome: enums.PaymentOutcomeTimedOut, Message: FailureMessage(enums.PaymentOutcomeTimedOut, "")}
	}
	return PaymentResult{Outcome: enums.PaymentOutcomeNetworkUnavailable, Message: FailureMessage(enums.PaymentOutcomeNetworkUnavailable, "")}
}

// FailureMessage is the text shown to the cashier when a payment does not go through.
func FailureMessage(outcome enums.PaymentOutcome, reason string) string {
	switch outcome {
	case enums.PaymentOutcomeDeclined:
		if reason != "" {
			return "Payment declined: " + reason
		}
		return "Payment declined. Try another payment method."
	case enums.PaymentOutcomeTimedOut:
		return "Payment timed out. Please try again."
	case enums.PaymentOutcomeNetworkUnavailable:
		return "Payment network unavailable. Check the connection and try again."
	}
	return ""
}

// InvoiceNumber formats INV-YYYYMMDDhhmmss-XXXX.
func InvoiceNumber(at time.Time, suffix string) string {
	suffix = strings.ToUpper(suffix)
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return fmt.Sprintf("INV-%s-%s", at.Format("20060102150405"), suffix)
}

// SimulatedGateway approves every charge after Delay, except cash payments
// that fall short of the amount due.
type SimulatedGateway struct {
	Delay time.Duration
	Clock func() time.Time
}

// NewSimulatedGateway returns a gateway that waits delay before answering.
func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay, Clock: time.Now}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return PaymentResult{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return PaymentResult{}, err
	}

	if !req.PaymentType.IsValid() {
		return PaymentResult{Outcome: enums.PaymentOutcomeDeclined, Message: FailureMessage(enums.PaymentOutcomeDeclined, "unsupported payment type")}, nil
	}

	var change int64
	if req.PaymentType == enums.PaymentTypeCash && req.AmountReceived != 0 {
		if req.AmountReceived < req.Amount {
			return PaymentResult{Outcome: enums.PaymentOutcomeDeclined, Message: FailureMessage(enums.PaymentOutcomeDeclined, "insufficient payment amount")}, nil
		}
		change = req.AmountReceived - req.Amount
	}

	now := time.Now
	if g.Clock != nil {
		now = g.Clock
	}
	paidAt := now()
	return PaymentResult{
		Outcome:   enums.PaymentOutcomeSucceeded,
		InvoiceNo: InvoiceNumber(paidAt, strings.ReplaceAll(uuid.NewString(), "-", "")),
		Change:    change,
		PaidAt:    paidAt,
	}, nil
}
