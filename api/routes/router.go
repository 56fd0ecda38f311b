package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/kasir-pos/api/controllers"
	poscontrollers "github.com/angelmondragon/kasir-pos/api/controllers/pos"
	"github.com/angelmondragon/kasir-pos/api/middleware"
	"github.com/angelmondragon/kasir-pos/internal/auth"
	"github.com/angelmondragon/kasir-pos/internal/dashboard"
	"github.com/angelmondragon/kasir-pos/internal/pos"
	"github.com/angelmondragon/kasir-pos/internal/session"
	"github.com/angelmondragon/kasir-pos/pkg/config"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
)

// LoginLimiter throttles the login endpoints. A nil limiter disables throttling.
type LoginLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Dependencies bundles what the router hands to controllers.
type Dependencies struct {
	Pingers   map[string]controllers.Pinger
	Limiter   LoginLimiter
	Sessions  session.Store
	Gatherer  prometheus.Gatherer
	Auth      auth.Service
	POS       pos.Service
	Dashboard dashboard.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
	sessionMW := middleware.Session(cfg.JWT, deps.Sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Limiter, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Limiter, logg)).Post("/quick-login", controllers.AuthQuickLogin(deps.Auth, logg))
		r.Group(func(r chi.Router) {
			r.Use(sessionMW)
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
			r.Get("/session", controllers.AuthSession(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(sessionMW)

		r.With(middleware.RequireSession(logg)).Get("/ping", controllers.PrivatePing())

		r.Route("/pos", func(r chi.Router) {
			r.Use(middleware.RequireScreen(enums.RoleCashier, logg))
			r.Get("/catalog", poscontrollers.PosCatalog(deps.POS, logg))
			r.Get("/discounts", poscontrollers.PosDiscounts(deps.POS, logg))
			r.Get("/members", poscontrollers.PosMemberSearch(deps.POS, logg))

			r.Route("/terminal", func(r chi.Router) {
				r.Get("/", poscontrollers.PosTerminal(deps.POS, logg))
				r.Post("/items", poscontrollers.PosAddItem(deps.POS, logg))
				r.Patch("/items/{productId}", poscontrollers.PosAdjustQuantity(deps.POS, logg))
				r.Delete("/items/{productId}", poscontrollers.PosRemoveItem(deps.POS, logg))
				r.Post("/discount", poscontrollers.PosApplyDiscount(deps.POS, logg))
				r.Delete("/discount", poscontrollers.PosClearDiscount(deps.POS, logg))
				r.Post("/member", poscontrollers.PosAttachMember(deps.POS, logg))
				r.Delete("/member", poscontrollers.PosDetachMember(deps.POS, logg))
				r.Post("/points", poscontrollers.PosRedeemPoints(deps.POS, logg))
				r.Post("/checkout", poscontrollers.PosCheckout(deps.POS, logg))
			})
		})

		r.With(middleware.RequireScreen(enums.RoleOwner, logg)).Get("/owner/dashboard", controllers.OwnerDashboard(deps.Dashboard, logg))
		r.With(middleware.RequireScreen(enums.RoleAdmin, logg)).Get("/admin/dashboard", controllers.AdminDashboard(deps.Dashboard, logg))
	})

	return r
}
