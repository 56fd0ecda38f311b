package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/kasir-pos/internal/discounts"
	"github.com/angelmondragon/kasir-pos/internal/loyalty"
	"github.com/angelmondragon/kasir-pos/internal/pricing"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"pgregory.net/rapid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCheckoutEmptyCartIsInert(t *testing.T) {
	sched := &manualScheduler{}
	gw := &scriptedGateway{outcome: enums.PaymentOutcomeSucceeded}
	term := newTestTerminal(t, gw, sched)

	snap, accepted, err := term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeCash})
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, enums.CheckoutStateIdle, snap.State)
	assert.Empty(t, gw.requests, "gateway must not be called")
	assert.Zero(t, sched.pending())
}

func TestSnapshotTotalsMatchChargeWhenTaxInclusive(t *testing.T) {
	engine, err := pricing.NewEngine(pricing.Rules{
		TaxRate:            decimal.RequireFromString("0.11"),
		TaxInclusive:       true,
		PointsPerAmount:    10000,
		PointValue:         100,
		MaxDiscountPercent: decimal.NewFromInt(30),
		MinMarginPercent:   decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	gw := &scriptedGateway{outcome: enums.PaymentOutcomeSucceeded}
	term := newTestTerminal(t, gw, &manualScheduler{}, func(o *Options) { o.Engine = engine })

	snap, err := term.AddItem(kopi)
	require.NoError(t, err)
	require.NotNil(t, snap.Breakdown)
	assert.Equal(t, int64(18000), snap.Totals.Total)
	assert.Equal(t, snap.Breakdown.GrandTotal, snap.Totals.Total)
	assert.Equal(t, snap.Breakdown.Tax, snap.Totals.Tax)

	_, accepted, err := term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeQRIS})
	require.NoError(t, err)
	require.True(t, accepted)
	require.Len(t, gw.requests, 1)
	assert.Equal(t, snap.Totals.Total, gw.requests[0].Amount, "the cart shows what is charged")
	require.NoError(t, term.Close(context.Background()))
}

func TestCheckoutSuccessLifecycle(t *testing.T) {
	sched := &manualScheduler{}
	gw := &scriptedGateway{outcome: enums.PaymentOutcomeSucceeded}
	rec := &fakeRecorder{}
	term := newTestTerminal(t, gw, sched, func(o *Options) { o.Metrics = rec })
	gw.terminal = term

	_, err := term.AddItem(kopi)
	require.NoError(t, err)
	_, err = term.AddItem(esTeh)
	require.NoError(t, err)
	_, err = term.AddItem(esTeh)
	require.NoError(t, err)

	snap, accepted, err := term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeQRIS})
	require.NoError(t, err)
	require.True(t, accepted)
	assert.Equal(t, enums.CheckoutStateProcessing, snap.State)

	require.Len(t, gw.during, 1)
	assert.Equal(t, enums.CheckoutStateProcessing, gw.during[0].State)
	assert.NotEmpty(t, gw.during[0].Items, "cart is never empty while processing")
	assert.Equal(t, int64(33300), gw.requests[0].Amount)
	assert.Equal(t, 1234, gw.requests[0].OrderNumber)

	snap = term.Snapshot()
	assert.Equal(t, enums.CheckoutStateSuccess, snap.State)
	assert.Len(t, snap.Items, 2, "cart is never empty while showing success")
	require.NotNil(t, snap.LastReceipt)
	assert.Equal(t, "INV-20261014093005-ABCD", snap.LastReceipt.InvoiceNo)
	assert.Equal(t, int64(33300), snap.LastReceipt.Breakdown.GrandTotal)
	assert.Equal(t, 1234, snap.LastReceipt.OrderNumber)
	assert.Equal(t, []recordedOutcome{{outcome: "succeeded"}}, rec.outcomes)

	_, err = term.AddItem(kopi)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "cart is locked during success")

	_, accepted, err = term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeQRIS})
	require.NoError(t, err)
	assert.False(t, accepted, "double submit is inert")
	assert.Len(t, gw.requests, 1)

	require.Equal(t, 1, sched.fireAll())
	snap = term.Snapshot()
	assert.Equal(t, enums.CheckoutStateIdle, snap.State)
	assert.Empty(t, snap.Items)
	assert.Equal(t, 1235, snap.OrderNumber)
	assert.NotNil(t, snap.LastReceipt, "receipt stays readable after reset")

	require.NoError(t, term.Close(context.Background()))
}

func TestCheckoutFailuresKeepCart(t *testing.T) {
	cases := []struct {
		name    string
		gw      *scriptedGateway
		outcome enums.PaymentOutcome
	}{
		{"declined", &scriptedGateway{outcome: enums.PaymentOutcomeDeclined}, enums.PaymentOutcomeDeclined},
		{"timed out", &scriptedGateway{err: context.DeadlineExceeded}, enums.PaymentOutcomeTimedOut},
		{"network", &scriptedGateway{err: errors.New("connection refused")}, enums.PaymentOutcomeNetworkUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sched := &manualScheduler{}
			term := newTestTerminal(t, tc.gw, sched)
			_, err := term.AddItem(kopi)
			require.NoError(t, err)

			_, accepted, err := term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeCard})
			require.NoError(t, err)
			require.True(t, accepted)

			snap := term.Snapshot()
			assert.Equal(t, enums.CheckoutStateIdle, snap.State)
			assert.Len(t, snap.Items, 1)
			assert.Equal(t, 1234, snap.OrderNumber)
			require.NotNil(t, snap.LastFailure)
			assert.Equal(t, tc.outcome, snap.LastFailure.Outcome)
			assert.NotEmpty(t, snap.LastFailure.Message)
			assert.Zero(t, sched.pending())

			_, err = term.AddItem(kopi)
			require.NoError(t, err, "cart is editable again after a failure")
		})
	}
}

func TestCheckoutRejectsInvalidRequest(t *testing.T) {
	term := newTestTerminal(t, &scriptedGateway{outcome: enums.PaymentOutcomeSucceeded}, &manualScheduler{})
	_, err := term.AddItem(kopi)
	require.NoError(t, err)

	_, _, err = term.Checkout(context.Background(), CheckoutRequest{PaymentType: "CHEQUE"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, _, err = term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeCash, AmountReceived: -1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, enums.CheckoutStateIdle, term.Snapshot().State)
}

func TestCheckoutRevalidatesDiscount(t *testing.T) {
	gw := &scriptedGateway{outcome: enums.PaymentOutcomeSucceeded}
	term := newTestTerminal(t, gw, &manualScheduler{})
	d, err := discounts.NewStaticSource().Lookup(context.Background(), "DISKON5K")
	require.NoError(t, err)

	_, err = term.AddItem(kopi)
	require.NoError(t, err)
	_, err = term.AddItem(kopi)
	require.NoError(t, err)
	snap, err := term.ApplyDiscount(d)
	require.NoError(t, err)
	require.NotNil(t, snap.Breakdown)
	assert.Equal(t, int64(5000), snap.Breakdown.Discount)

	_, err = term.AdjustQuantity(kopi.ID, -1)
	require.NoError(t, err)

	_, accepted, err := term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeCash})
	require.Error(t, err)
	assert.False(t, accepted)
	assert.Contains(t, err.Error(), "minimum purchase")
	assert.Empty(t, gw.requests)
}

func TestCheckoutCancelledByClose(t *testing.T) {
	gw := &blockingGateway{started: make(chan struct{})}
	sched := &manualScheduler{}
	term := newTestTerminal(t, gw, sched, func(o *Options) { o.Spawn = nil })
	_, err := term.AddItem(kopi)
	require.NoError(t, err)

	_, accepted, err := term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeCard})
	require.NoError(t, err)
	require.True(t, accepted)
	<-gw.started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, term.Close(ctx))

	snap := term.Snapshot()
	assert.Equal(t, enums.CheckoutStateProcessing, snap.State, "late results from a closed terminal are dropped")
	assert.Nil(t, snap.LastFailure)
	assert.Zero(t, sched.pending())

	_, err = term.AddItem(kopi)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	require.NoError(t, term.Close(context.Background()), "second close is a no-op")
}

func TestCheckoutTimeoutMapsToTimedOut(t *testing.T) {
	gw := &blockingGateway{started: make(chan struct{})}
	term := newTestTerminal(t, gw, &manualScheduler{}, func(o *Options) { o.PaymentTimeout = 5 * time.Millisecond })
	_, err := term.AddItem(kopi)
	require.NoError(t, err)

	_, accepted, err := term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeEWallet})
	require.NoError(t, err)
	require.True(t, accepted)

	snap := term.Snapshot()
	assert.Equal(t, enums.CheckoutStateIdle, snap.State)
	require.NotNil(t, snap.LastFailure)
	assert.Equal(t, enums.PaymentOutcomeTimedOut, snap.LastFailure.Outcome)
}

func TestCloseStopsSuccessTimer(t *testing.T) {
	sched := &manualScheduler{}
	term := newTestTerminal(t, &scriptedGateway{outcome: enums.PaymentOutcomeSucceeded}, sched)
	_, err := term.AddItem(kopi)
	require.NoError(t, err)
	_, _, err = term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeCash})
	require.NoError(t, err)
	require.Equal(t, 1, sched.pending())

	require.NoError(t, term.Close(context.Background()))
	assert.Zero(t, sched.pending())
}

func TestLoyaltyOnTerminal(t *testing.T) {
	term := newTestTerminal(t, &scriptedGateway{outcome: enums.PaymentOutcomeSucceeded}, &manualScheduler{})
	member := loyalty.Member{ID: "c-2", Name: "Sari Dewi", Tier: enums.MemberTypeSilver, Points: 430}

	_, err := term.RedeemPoints(10)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "redemption needs a member")

	for i := 0; i < 5; i++ {
		_, err = term.AddItem(kopi)
		require.NoError(t, err)
	}
	_, err = term.AttachMember(member)
	require.NoError(t, err)

	_, err = term.RedeemPoints(431)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	snap, err := term.RedeemPoints(50)
	require.NoError(t, err)
	require.NotNil(t, snap.Breakdown)
	assert.Equal(t, int64(5000), snap.Breakdown.LoyaltyRedemption)
	assert.Equal(t, int64(85000), snap.Breakdown.AmountBeforeTax)
	// floor(85000/10000) = 8, silver x1.2 = 9.6, truncated
	assert.Equal(t, int64(9), snap.Breakdown.PointsEarned)

	snap, err = term.DetachMember()
	require.NoError(t, err)
	assert.Nil(t, snap.Member)
	assert.Zero(t, snap.PointsRedeemed)
}

func TestClosedTerminalRejectsCheckout(t *testing.T) {
	term := newTestTerminal(t, &scriptedGateway{outcome: enums.PaymentOutcomeSucceeded}, &manualScheduler{})
	require.NoError(t, term.Close(context.Background()))
	_, _, err := term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeCash})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestTerminalCheckoutProperty(t *testing.T) {
	products := []struct {
		id    string
		price int64
	}{{"1", 18000}, {"3", 5000}, {"4", 6000}, {"8", 15000}}

	rapid.Check(t, func(rt *rapid.T) {
		sched := &manualScheduler{}
		gw := &scriptedGateway{outcome: enums.PaymentOutcomeSucceeded}
		term := newTestTerminal(t, gw, sched)
		gw.terminal = term

		adds := rapid.IntRange(0, 6).Draw(rt, "adds")
		for i := 0; i < adds; i++ {
			p := rapid.SampledFrom(products).Draw(rt, "product")
			prod := kopi
			prod.ID, prod.Price = p.id, p.price
			_, err := term.AddItem(prod)
			require.NoError(rt, err)
		}
		empty := adds == 0

		_, accepted, err := term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeQRIS})
		require.NoError(rt, err)
		if empty {
			assert.False(rt, accepted)
			assert.Equal(rt, enums.CheckoutStateIdle, term.Snapshot().State)
			return
		}
		require.True(rt, accepted)
		for _, s := range gw.during {
			assert.NotEmpty(rt, s.Items)
		}
		snap := term.Snapshot()
		assert.Equal(rt, enums.CheckoutStateSuccess, snap.State)
		assert.NotEmpty(rt, snap.Items)

		sched.fireAll()
		snap = term.Snapshot()
		assert.Equal(rt, enums.CheckoutStateIdle, snap.State)
		assert.Empty(rt, snap.Items)
		assert.Equal(rt, 1235, snap.OrderNumber)
	})
}
