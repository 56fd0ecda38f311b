package pos

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/kasir-pos/internal/cart"
	"github.com/angelmondragon/kasir-pos/internal/catalog"
	"github.com/angelmondragon/kasir-pos/internal/checkout"
	"github.com/angelmondragon/kasir-pos/internal/discounts"
	"github.com/angelmondragon/kasir-pos/internal/loyalty"
	"github.com/angelmondragon/kasir-pos/internal/pricing"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
)

// CheckoutRequest is what the cashier submits with the pay button.
type CheckoutRequest struct {
	PaymentType    enums.PaymentType
	AmountReceived int64
}

// Receipt describes the last completed sale.
type Receipt struct {
	OrderNumber    int               `json:"order_number"`
	InvoiceNo      string            `json:"invoice_no"`
	PaymentType    enums.PaymentType `json:"payment_type"`
	Items          []cart.LineItem   `json:"items"`
	Breakdown      pricing.Breakdown `json:"breakdown"`
	AmountReceived int64             `json:"amount_received"`
	Change         int64             `json:"change"`
	MemberName     string            `json:"member_name,omitempty"`
	PaidAt         time.Time         `json:"paid_at"`
}

// Failure is the message shown after a payment did not go through.
type Failure struct {
	Outcome enums.PaymentOutcome `json:"outcome"`
	Message string               `json:"message"`
	At      time.Time            `json:"at"`
}

// Snapshot is a consistent read of a terminal.
type Snapshot struct {
	TerminalID     string              `json:"terminal_id"`
	State          enums.CheckoutState `json:"state"`
	OrderNumber    int                 `json:"order_number"`
	Items          []cart.LineItem     `json:"items"`
	Totals         pricing.Totals      `json:"totals"`
	Breakdown      *pricing.Breakdown  `json:"breakdown,omitempty"`
	PricingError   string              `json:"pricing_error,omitempty"`
	Discount       *discounts.Discount `json:"discount,omitempty"`
	Member         *loyalty.Member     `json:"member,omitempty"`
	PointsRedeemed int64               `json:"points_redeemed"`
	LastReceipt    *Receipt            `json:"last_receipt,omitempty"`
	LastFailure    *Failure            `json:"last_failure,omitempty"`
}

// Terminal is one cashier screen: a cart plus its checkout state machine.
// All fields are guarded by mu. gen is bumped on every teardown so late
// payment results and timers from a previous generation are dropped.
type Terminal struct {
	id   string
	opts Options

	mu          sync.Mutex
	cart        *cart.Cart
	state       enums.CheckoutState
	orderNumber int
	discount    *discounts.Discount
	member      *loyalty.Member
	points      int64
	lastReceipt *Receipt
	lastFailure *Failure
	closed      bool

	gen    uint64
	cancel context.CancelFunc
	timer  checkout.Timer
	wg     sync.WaitGroup
}

// NewTerminal returns an idle terminal with an empty cart.
func NewTerminal(id string, opts Options) (*Terminal, error) {
	resolved, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Terminal{
		id:          id,
		opts:        resolved,
		cart:        cart.New(),
		state:       enums.CheckoutStateIdle,
		orderNumber: resolved.Seed(),
	}, nil
}

// ID returns the terminal id (the owning session id).
func (t *Terminal) ID() string {
	return t.id
}

// Snapshot returns the current view of the terminal.
func (t *Terminal) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Terminal) AddItem(p catalog.Product) (Snapshot, error) {
	return t.mutate(func() error {
		t.cart.AddItem(p)
		return nil
	})
}

func (t *Terminal) AdjustQuantity(productID string, delta int) (Snapshot, error) {
	return t.mutate(func() error {
		t.cart.AdjustQuantity(productID, delta)
		return nil
	})
}

func (t *Terminal) RemoveItem(productID string) (Snapshot, error) {
	return t.mutate(func() error {
		t.cart.RemoveItem(productID)
		return nil
	})
}

// ApplyDiscount attaches a promo code after checking it against the current cart.
func (t *Terminal) ApplyDiscount(d discounts.Discount) (Snapshot, error) {
	return t.mutate(func() error {
		gross := t.opts.Engine.Totals(t.cart.Items()).Subtotal
		if err := d.Validate(t.opts.Clock(), gross); err != nil {
			return err
		}
		t.discount = &d
		return nil
	})
}

func (t *Terminal) ClearDiscount() (Snapshot, error) {
	return t.mutate(func() error {
		t.discount = nil
		return nil
	})
}

// AttachMember links a loyalty member to the sale. Any earlier redemption is reset.
func (t *Terminal) AttachMember(m loyalty.Member) (Snapshot, error) {
	return t.mutate(func() error {
		t.member = &m
		t.points = 0
		return nil
	})
}

// DetachMember switches back to guest mode.
func (t *Terminal) DetachMember() (Snapshot, error) {
	return t.mutate(func() error {
		t.member = nil
		t.points = 0
		return nil
	})
}

// RedeemPoints sets how many of the member's points pay for this sale.
func (t *Terminal) RedeemPoints(points int64) (Snapshot, error) {
	return t.mutate(func() error {
		if t.member == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "attach a member before redeeming points")
		}
		if points < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "points must not be negative")
		}
		if points > t.member.Points {
			return pkgerrors.New(pkgerrors.CodeValidation, "not enough points").
				WithDetails(map[string]any{"available": t.member.Points, "requested": points})
		}
		t.points = points
		return nil
	})
}

// Checkout starts a payment. It returns accepted=false without error when the
// initiate event does not apply (empty cart, or a checkout already running).
func (t *Terminal) Checkout(ctx context.Context, req CheckoutRequest) (Snapshot, bool, error) {
	if !req.PaymentType.IsValid() {
		return Snapshot{}, false, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type").
			WithDetails(map[string]any{"payment_type": req.PaymentType})
	}
	if req.AmountReceived < 0 {
		return Snapshot{}, false, pkgerrors.New(pkgerrors.CodeValidation, "amount received must not be negative")
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return Snapshot{}, false, errTerminalClosed()
	}
	next, fired := checkout.Next(t.state, checkout.EventInitiate, t.cart.IsEmpty())
	if !fired {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap, false, nil
	}

	now := t.opts.Clock()
	items := t.cart.Items()
	gross := t.opts.Engine.Totals(items).Subtotal
	if t.discount != nil {
		if err := t.discount.Validate(now, gross); err != nil {
			t.mu.Unlock()
			return Snapshot{}, false, err
		}
	}
	breakdown, err := t.opts.Engine.Breakdown(items, t.adjustmentsLocked())
	if err != nil {
		t.mu.Unlock()
		return Snapshot{}, false, err
	}

	t.state = next
	t.lastFailure = nil
	t.gen++
	gen := t.gen
	payCtx, cancel := context.WithTimeout(context.Background(), t.opts.PaymentTimeout)
	t.cancel = cancel

	pending := Receipt{
		OrderNumber:    t.orderNumber,
		PaymentType:    req.PaymentType,
		Items:          items,
		Breakdown:      breakdown,
		AmountReceived: req.AmountReceived,
	}
	if t.member != nil {
		pending.MemberName = t.member.Name
	}
	payment := checkout.PaymentRequest{
		OrderNumber:    t.orderNumber,
		Amount:         breakdown.GrandTotal,
		PaymentType:    req.PaymentType,
		AmountReceived: req.AmountReceived,
	}
	snap := t.snapshotLocked()
	t.wg.Add(1)
	t.mu.Unlock()

	logCtx := t.logContext(ctx)
	t.opts.Logger.Info(t.opts.Logger.WithField(logCtx, "grand_total", breakdown.GrandTotal), "checkout.processing")

	t.opts.Spawn(func() {
		defer t.wg.Done()
		started := time.Now()
		res, err := t.opts.Gateway.Charge(payCtx, payment)
		t.finishPayment(logCtx, gen, pending, checkout.Classify(res, err), time.Since(started))
	})
	return snap, true, nil
}

func (t *Terminal) finishPayment(ctx context.Context, gen uint64, pending Receipt, res checkout.PaymentResult, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || t.state != enums.CheckoutStateProcessing {
		return
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}

	next, _ := checkout.Next(t.state, checkout.OutcomeEvent(res.Outcome), false)
	t.state = next
	if t.opts.Metrics != nil {
		t.opts.Metrics.ObserveCheckout(res.Outcome.String(), elapsed)
	}

	if res.Outcome.Succeeded() {
		pending.InvoiceNo = res.InvoiceNo
		pending.Change = res.Change
		pending.PaidAt = res.PaidAt
		if pending.PaidAt.IsZero() {
			pending.PaidAt = t.opts.Clock()
		}
		t.lastReceipt = &pending
		t.timer = t.opts.Scheduler.AfterFunc(t.opts.SuccessDisplay, func() { t.displayElapsed(ctx, gen) })
		t.opts.Logger.Info(t.opts.Logger.WithField(ctx, "invoice_no", res.InvoiceNo), "checkout.success")
		return
	}

	t.lastFailure = &Failure{Outcome: res.Outcome, Message: res.Message, At: t.opts.Clock()}
	t.opts.Logger.Warn(t.opts.Logger.WithField(ctx, "outcome", res.Outcome.String()), "checkout.failed")
}

func (t *Terminal) displayElapsed(ctx context.Context, gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen {
		return
	}
	next, fired := checkout.Next(t.state, checkout.EventDisplayElapsed, t.cart.IsEmpty())
	if !fired {
		return
	}
	t.timer = nil
	t.cart.Clear()
	t.discount = nil
	t.member = nil
	t.points = 0
	t.orderNumber++
	t.state = next
	t.opts.Logger.Info(t.opts.Logger.WithField(ctx, "order_number", t.orderNumber), "checkout.reset")
}

// Close cancels any payment in flight, stops the success timer and waits for
// the payment goroutine to return. Closing twice is a no-op.
func (t *Terminal) Close(ctx context.Context) error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		t.gen++
		if t.cancel != nil {
			t.cancel()
			t.cancel = nil
		}
		if t.timer != nil {
			t.timer.Stop()
			t.timer = nil
		}
	}
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "terminal close timed out").
			WithDetails(map[string]any{"terminal_id": t.id})
	}
}

func (t *Terminal) mutate(fn func() error) (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return Snapshot{}, errTerminalClosed()
	}
	if t.state.Busy() {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout in progress").
			WithDetails(map[string]any{"state": t.state})
	}
	if err := fn(); err != nil {
		return Snapshot{}, err
	}
	return t.snapshotLocked(), nil
}

func (t *Terminal) adjustmentsLocked() pricing.Adjustments {
	adj := pricing.Adjustments{Discount: t.discount, PointsRedeemed: t.points, Tier: enums.MemberTypeRegular}
	if t.member != nil {
		adj.Tier = t.member.Tier
	}
	return adj
}

func (t *Terminal) snapshotLocked() Snapshot {
	items := t.cart.Items()
	snap := Snapshot{
		TerminalID:     t.id,
		State:          t.state,
		OrderNumber:    t.orderNumber,
		Items:          items,
		Totals:         t.opts.Engine.Totals(items),
		PointsRedeemed: t.points,
		LastReceipt:    t.lastReceipt,
		LastFailure:    t.lastFailure,
	}
	if t.discount != nil {
		d := *t.discount
		snap.Discount = &d
	}
	if t.member != nil {
		m := *t.member
		snap.Member = &m
	}
	breakdown, err := t.opts.Engine.Breakdown(items, t.adjustmentsLocked())
	if err != nil {
		snap.PricingError = err.Error()
		if typed := pkgerrors.As(err); typed != nil {
			snap.PricingError = typed.Message()
		}
	} else {
		snap.Breakdown = &breakdown
	}
	return snap
}

func (t *Terminal) logContext(ctx context.Context) context.Context {
	return t.opts.Logger.WithField(ctx, "terminal_id", t.id)
}

func errTerminalClosed() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "terminal closed")
}
