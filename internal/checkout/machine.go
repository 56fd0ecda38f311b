package checkout

import "github.com/angelmondragon/kasir-pos/pkg/enums"

// Event drives the checkout state machine.
type Event string

const (
	EventInitiate         Event = "initiate"
	EventPaymentSucceeded Event = "payment_succeeded"
	EventPaymentFailed    Event = "payment_failed"
	EventDisplayElapsed   Event = "display_elapsed"
)

// Next returns the state after ev and whether a transition fired. Events that
// do not apply to the current state leave it unchanged. Initiating on an empty
// cart never fires, and initiating while processing or showing success is inert.
func Next(state enums.CheckoutState, ev Event, cartEmpty bool) (enums.CheckoutState, bool) {
	switch state {
	case enums.CheckoutStateIdle:
		if ev == EventInitiate && !cartEmpty {
			return enums.CheckoutStateProcessing, true
		}
	case enums.CheckoutStateProcessing:
		switch ev {
		case EventPaymentSucceeded:
			return enums.CheckoutStateSuccess, true
		case EventPaymentFailed:
			return enums.CheckoutStateIdle, true
		}
	case enums.CheckoutStateSuccess:
		if ev == EventDisplayElapsed {
			return enums.CheckoutStateIdle, true
		}
	}
	return state, false
}

// OutcomeEvent maps a gateway outcome to the event it raises.
func OutcomeEvent(outcome enums.PaymentOutcome) Event {
	if outcome.Succeeded() {
		return EventPaymentSucceeded
	}
	return EventPaymentFailed
}
