package session

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/kasir-pos/pkg/enums"
	"github.com/google/uuid"
)

// Session is the signed-in user of one browser.
type Session struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      enums.Role `json:"role"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
}

// Store keeps sessions between requests. Get returns (nil, nil) when no session exists.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, s Session) error
	Clear(ctx context.Context, id string) error
}

// Exists reports whether store still holds the session id.
func Exists(store Store) func(ctx context.Context, id string) (bool, error) {
	return func(ctx context.Context, id string) (bool, error) {
		s, err := store.Get(ctx, id)
		if err != nil {
			return false, err
		}
		return s != nil, nil
	}
}

// NewID returns a fresh session id. It doubles as the JWT jti.
func NewID() string {
	return uuid.NewString()
}

// Decision is the guard's answer for a screen.
type Decision struct {
	Allowed  bool        `json:"allowed"`
	Redirect enums.Route `json:"redirect,omitempty"`
}

// Decide allows the screen only when a session exists and its role matches
// required. Everything else redirects to login.
func Decide(stored *Session, required enums.Role) Decision {
	if stored == nil || !stored.Role.IsValid() || stored.Role != required {
		return Decision{Redirect: enums.RouteLogin}
	}
	return Decision{Allowed: true}
}

func validID(id string) bool {
	return strings.TrimSpace(id) != ""
}
