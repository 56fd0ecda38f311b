package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/kasir-pos/internal/checkout"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(Options{
		Engine:    testEngine(t),
		Gateway:   &scriptedGateway{outcome: enums.PaymentOutcomeSucceeded},
		Scheduler: &manualScheduler{},
		Spawn:     syncSpawn,
	})
	require.NoError(t, err)
	return reg
}

func TestNewRegistryRequiresDependencies(t *testing.T) {
	_, err := NewRegistry(Options{})
	require.Error(t, err)
	_, err = NewRegistry(Options{Engine: testEngine(t)})
	require.Error(t, err)
}

func TestRegistryGetCreatesOncePerSession(t *testing.T) {
	reg := newTestRegistry(t)

	a, err := reg.Get("sess-a")
	require.NoError(t, err)
	again, err := reg.Get("sess-a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	b, err := reg.Get("sess-b")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, reg.Len())

	order := a.Snapshot().OrderNumber
	assert.GreaterOrEqual(t, order, 1000)
	assert.LessOrEqual(t, order, 9999)

	_, err = reg.Get("  ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRegistryCloseForgetsTerminal(t *testing.T) {
	reg := newTestRegistry(t)
	term, err := reg.Get("sess-a")
	require.NoError(t, err)
	_, err = term.AddItem(kopi)
	require.NoError(t, err)

	require.NoError(t, reg.Close(context.Background(), "sess-a"))
	_, ok := reg.Lookup("sess-a")
	assert.False(t, ok)
	require.NoError(t, reg.Close(context.Background(), "missing"))

	fresh, err := reg.Get("sess-b")
	require.NoError(t, err)
	assert.Empty(t, fresh.Snapshot().Items, "a new login starts a clean cart")
}

func TestRegistryRefusesEndedSession(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.Get("sess-a")
	require.NoError(t, err)
	require.NoError(t, reg.Close(context.Background(), "sess-a"))

	_, err = reg.Get("sess-a")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeRedirect))
	assert.Zero(t, reg.Len(), "a late request must not reopen the terminal")

	require.NoError(t, reg.Close(context.Background(), "never-opened"))
	_, err = reg.Get(" never-opened ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeRedirect))
}

func TestRegistrySweepClosesDeadSessions(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	reg := newTestRegistry(t)
	reg.clock = func() time.Time { return now }

	for _, id := range []string{"alive", "expired"} {
		_, err := reg.Get(id)
		require.NoError(t, err)
	}
	alive := func(_ context.Context, id string) (bool, error) { return id == "alive", nil }

	closed, err := reg.Sweep(context.Background(), alive)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Lookup("alive")
	assert.True(t, ok)

	_, err = reg.Get("expired")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeRedirect))

	now = now.Add(endedRetention + time.Minute)
	_, err = reg.Sweep(context.Background(), alive)
	require.NoError(t, err)
	reg.mu.Lock()
	assert.Empty(t, reg.ended, "ended ids are forgotten after the retention window")
	reg.mu.Unlock()
}

func TestRegistrySweepKeepsTerminalWhenStoreFails(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.Get("sess-a")
	require.NoError(t, err)

	failing := func(context.Context, string) (bool, error) { return false, errors.New("redis down") }
	closed, err := reg.Sweep(context.Background(), failing)
	require.Error(t, err)
	assert.Zero(t, closed)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryRunSweeperStopsWithContext(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.Get("gone")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.RunSweeper(ctx, time.Millisecond, func(context.Context, string) (bool, error) { return false, nil })
		close(done)
	}()

	require.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestRegistryCloseAllCombinesErrors(t *testing.T) {
	gw := &stubbornGateway{release: make(chan struct{})}
	reg, err := NewRegistry(Options{
		Engine:    testEngine(t),
		Gateway:   gw,
		Scheduler: &manualScheduler{},
	})
	require.NoError(t, err)

	for _, id := range []string{"a", "b"} {
		term, err := reg.Get(id)
		require.NoError(t, err)
		_, err = term.AddItem(kopi)
		require.NoError(t, err)
		_, accepted, err := term.Checkout(context.Background(), CheckoutRequest{PaymentType: enums.PaymentTypeCash})
		require.NoError(t, err)
		require.True(t, accepted)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = reg.CloseAll(ctx)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Zero(t, reg.Len())

	close(gw.release)
}

// stubbornGateway ignores cancellation until released.
type stubbornGateway struct {
	release chan struct{}
}

func (g *stubbornGateway) Charge(context.Context, checkout.PaymentRequest) (checkout.PaymentResult, error) {
	<-g.release
	return checkout.PaymentResult{Outcome: enums.PaymentOutcomeSucceeded}, nil
}
