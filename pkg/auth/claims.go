package auth

import (
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenPayload captures the data available when minting a JWT.
type SessionTokenPayload struct {
	SessionID string
	Email     string
	Name      string
	Role      enums.Role
}

// SessionClaims represents the typed JWT issued to clients. The registered ID
// (jti) is the session store key.
type SessionClaims struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the store key carried in the token.
func (c *SessionClaims) SessionID() string {
	return c.ID
}
