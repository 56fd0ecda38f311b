package enums

// PaymentOutcome is the result kind returned by a payment gateway.
type PaymentOutcome string

const (
	PaymentOutcomeSucceeded          PaymentOutcome = "succeeded"
	PaymentOutcomeDeclined           PaymentOutcome = "declined"
	PaymentOutcomeTimedOut           PaymentOutcome = "timed_out"
	PaymentOutcomeNetworkUnavailable PaymentOutcome = "network_unavailable"
)

var validPaymentOutcomes = []PaymentOutcome{
	PaymentOutcomeSucceeded,
	PaymentOutcomeDeclined,
	PaymentOutcomeTimedOut,
	PaymentOutcomeNetworkUnavailable,
}

// String implements fmt.Stringer.
func (p PaymentOutcome) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentOutcome.
func (p PaymentOutcome) IsValid() bool {
	for _, candidate := range validPaymentOutcomes {
		if candidate == p {
			return true
		}
	}
	return false
}

// Succeeded reports whether the payment went through.
func (p PaymentOutcome) Succeeded() bool {
	return p == PaymentOutcomeSucceeded
}
