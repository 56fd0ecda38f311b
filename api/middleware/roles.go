package middleware

import (
	"net/http"

	"github.com/angelmondragon/kasir-pos/api/responses"
	"github.com/angelmondragon/kasir-pos/internal/session"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
)

// RequireScreen lets the request through only for sessions of role. Anyone
// else gets a silent redirect to the login screen.
func RequireScreen(role enums.Role, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := session.Decide(SessionFromContext(r.Context()), role)
			if !d.Allowed {
				if logg != nil {
					logg.Debug(logg.WithField(r.Context(), "required_role", role.String()), "auth.redirect")
				}
				responses.WriteRedirect(w, d.Redirect.String())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession lets any signed-in session through.
func RequireSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFromContext(r.Context()) == nil {
				if logg != nil {
					logg.Debug(r.Context(), "auth.redirect")
				}
				responses.WriteRedirect(w, enums.RouteLogin.String())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
