package auth

import (
	"github.com/angelmondragon/kasir-pos/internal/session"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// QuickLoginRequest signs in as the demo account of a role.
type QuickLoginRequest struct {
	Role string `json:"role" validate:"required,oneof=CASHIER OWNER ADMIN cashier owner admin"`
}

// LoginResponse carries the token, the stored session and the screen to open.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	Session     session.Session `json:"session"`
	Route       enums.Route     `json:"route"`
}

// SessionResponse is the current session plus its home screen.
type SessionResponse struct {
	Session session.Session `json:"session"`
	Route   enums.Route     `json:"route"`
}
