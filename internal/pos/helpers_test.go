package pos

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/kasir-pos/internal/catalog"
	"github.com/angelmondragon/kasir-pos/internal/checkout"
	"github.com/angelmondragon/kasir-pos/internal/pricing"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	kopi  = catalog.Product{ID: "1", SKU: "DRK-001", Name: "Kopi Susu Gula Aren", Price: 18000, Category: catalog.CategoryBeverage}
	esTeh = catalog.Product{ID: "4", SKU: "DRK-002", Name: "Es Teh Manis Jumbo", Price: 6000, Category: catalog.CategoryBeverage}
)

func testEngine(t testing.TB) *pricing.Engine {
	t.Helper()
	engine, err := pricing.NewEngine(pricing.Rules{
		TaxRate:            decimal.RequireFromString("0.11"),
		PointsPerAmount:    10000,
		PointValue:         100,
		MaxDiscountPercent: decimal.NewFromInt(30),
		MinMarginPercent:   decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	return engine
}

// manualScheduler holds timers until the test fires them.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) checkout.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	tm := &manualTimer{d: d, f: f}
	s.timers = append(s.timers, tm)
	return &manualHandle{s: s, t: tm}
}

type manualHandle struct {
	s *manualScheduler
	t *manualTimer
}

func (h *manualHandle) Stop() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	if h.t.stopped || h.t.fired {
		return false
	}
	h.t.stopped = true
	return true
}

// fireAll runs every pending timer and returns how many ran.
func (s *manualScheduler) fireAll() int {
	s.mu.Lock()
	var due []*manualTimer
	for _, tm := range s.timers {
		if !tm.stopped && !tm.fired {
			tm.fired = true
			due = append(due, tm)
		}
	}
	s.mu.Unlock()
	for _, tm := range due {
		tm.f()
	}
	return len(due)
}

func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, tm := range s.timers {
		if !tm.stopped && !tm.fired {
			n++
		}
	}
	return n
}

// scriptedGateway answers with a fixed outcome and records what the terminal
// looked like while the charge was running.
type scriptedGateway struct {
	outcome  enums.PaymentOutcome
	err      error
	terminal *Terminal

	mu       sync.Mutex
	requests []checkout.PaymentRequest
	during   []Snapshot
}

func (g *scriptedGateway) Charge(_ context.Context, req checkout.PaymentRequest) (checkout.PaymentResult, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	if g.terminal != nil {
		g.during = append(g.during, g.terminal.Snapshot())
	}
	g.mu.Unlock()
	if g.err != nil {
		return checkout.PaymentResult{}, g.err
	}
	res := checkout.PaymentResult{Outcome: g.outcome}
	if g.outcome.Succeeded() {
		res.InvoiceNo = "INV-20261014093005-ABCD"
		res.PaidAt = time.Date(2026, 10, 14, 9, 30, 5, 0, time.UTC)
	}
	return res, nil
}

// blockingGateway waits until its context ends.
type blockingGateway struct {
	started chan struct{}
}

func (g *blockingGateway) Charge(ctx context.Context, _ checkout.PaymentRequest) (checkout.PaymentResult, error) {
	close(g.started)
	<-ctx.Done()
	return checkout.PaymentResult{}, ctx.Err()
}

type recordedOutcome struct {
	outcome string
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []recordedOutcome
}

func (r *fakeRecorder) ObserveCheckout(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, recordedOutcome{outcome: outcome})
}

func syncSpawn(f func()) { f() }

func newTestTerminal(t testing.TB, gw checkout.Gateway, sched checkout.Scheduler, mutate ...func(*Options)) *Terminal {
	t.Helper()
	opts := Options{
		Engine:    testEngine(t),
		Gateway:   gw,
		Scheduler: sched,
		Spawn:     syncSpawn,
		Seed:      func() int { return 1234 },
		Clock:     func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) },
	}
	for _, m := range mutate {
		m(&opts)
	}
	term, err := NewTerminal("sess-1", opts)
	require.NoError(t, err)
	return term
}
