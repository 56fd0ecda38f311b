package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/kasir-pos/api/responses"
	"github.com/angelmondragon/kasir-pos/internal/session"
	pkgAuth "github.com/angelmondragon/kasir-pos/pkg/auth"
	"github.com/angelmondragon/kasir-pos/pkg/config"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
)

// Session resolves the bearer token to a stored session. Requests without a
// usable token continue with no session so the screen guard can redirect
// them; only a failing store is reported as an error.
func Session(cfg config.JWTConfig, store session.Store, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgAuth.ParseSessionToken(cfg, token)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "reason", err.Error()), "auth.token_rejected")
				}
				next.ServeHTTP(w, r)
				return
			}

			stored, err := store.Get(r.Context(), claims.SessionID())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session"))
				return
			}
			if stored == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithSession(r.Context(), stored)
			if logg != nil {
				ctx = logg.WithActorRole(logg.WithSessionID(ctx, stored.ID), stored.Role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
