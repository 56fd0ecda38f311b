package pos

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/angelmondragon/kasir-pos/internal/checkout"
	"github.com/angelmondragon/kasir-pos/internal/pricing"
	"github.com/angelmondragon/kasir-pos/pkg/config"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
)

const (
	defaultPaymentTimeout = 10 * time.Second
	defaultSuccessDisplay = 2 * time.Second
	minOrderNumber        = 1000
	maxOrderNumber        = 9999
)

// Recorder receives checkout outcomes. *metrics.CheckoutMetrics satisfies it.
type Recorder interface {
	ObserveCheckout(outcome string, elapsed time.Duration)
}

// Options configures every terminal created by a registry.
type Options struct {
	Engine    *pricing.Engine
	Gateway   checkout.Gateway
	Scheduler checkout.Scheduler
	// Spawn starts the payment call off the request path. Defaults to a goroutine.
	Spawn          func(func())
	PaymentTimeout time.Duration
	SuccessDisplay time.Duration
	Logger         *logger.Logger
	Metrics        Recorder
	Clock          func() time.Time
	// Seed picks the first order number of a new terminal.
	Seed func() int
}

// OptionsFromConfig fills the timing settings from the checkout config.
func OptionsFromConfig(cfg config.CheckoutConfig, engine *pricing.Engine, gateway checkout.Gateway, logg *logger.Logger, rec Recorder) Options {
	return Options{
		Engine:         engine,
		Gateway:        gateway,
		PaymentTimeout: cfg.PaymentTimeout,
		SuccessDisplay: cfg.SuccessDisplayDelay,
		Logger:         logg,
		Metrics:        rec,
	}
}

func (o Options) withDefaults() (Options, error) {
	if o.Engine == nil {
		return o, fmt.Errorf("pricing engine required")
	}
	if o.Gateway == nil {
		return o, fmt.Errorf("payment gateway required")
	}
	if o.Scheduler == nil {
		o.Scheduler = checkout.WallClock{}
	}
	if o.Spawn == nil {
		o.Spawn = func(f func()) { go f() }
	}
	if o.PaymentTimeout <= 0 {
		o.PaymentTimeout = defaultPaymentTimeout
	}
	if o.SuccessDisplay <= 0 {
		o.SuccessDisplay = defaultSuccessDisplay
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Seed == nil {
		o.Seed = func() int { return minOrderNumber + rand.IntN(maxOrderNumber-minOrderNumber+1) }
	}
	return o, nil
}
