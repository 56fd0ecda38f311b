package enums

// CheckoutState tracks the terminal's progress through a payment.
type CheckoutState string

const (
	CheckoutStateIdle       CheckoutState = "idle"
	CheckoutStateProcessing CheckoutState = "processing"
	CheckoutStateSuccess    CheckoutState = "success"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateProcessing,
	CheckoutStateSuccess,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// Busy reports whether a checkout is in flight and the cart is locked.
func (c CheckoutState) Busy() bool {
	return c == CheckoutStateProcessing || c == CheckoutStateSuccess
}
