package auth

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/kasir-pos/pkg/config"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	"github.com/angelmondragon/kasir-pos/pkg/security"
)

// Account is a user allowed to sign in. Only the password hash is kept.
type Account struct {
	Email        string
	Name         string
	Role         enums.Role
	PasswordHash string
}

// Credential is a plain email/password pair used to seed accounts.
type Credential struct {
	Email    string
	Password string
	Name     string
	Role     enums.Role
}

// DemoCredentials are the accounts shown on the login screen.
var DemoCredentials = []Credential{
	{Email: "kasir@demo.com", Password: "kasir123", Name: "Demo Kasir", Role: enums.RoleCashier},
	{Email: "owner@demo.com", Password: "owner123", Name: "Demo Owner", Role: enums.RoleOwner},
	{Email: "admin@demo.com", Password: "admin123", Name: "Demo Admin", Role: enums.RoleAdmin},
}

// Accounts is an in-memory account directory keyed by lowercase email.
type Accounts struct {
	byEmail map[string]Account
	byRole  map[enums.Role]Account
}

// NewAccounts hashes each credential with argon2id. The first account per role
// is the one quick login uses.
func NewAccounts(cfg config.PasswordConfig, creds ...Credential) (*Accounts, error) {
	if len(creds) == 0 {
		creds = DemoCredentials
	}
	a := &Accounts{byEmail: map[string]Account{}, byRole: map[enums.Role]Account{}}
	for _, c := range creds {
		email := normalizeEmail(c.Email)
		if email == "" {
			return nil, fmt.Errorf("account email is required")
		}
		if !c.Role.IsValid() {
			return nil, fmt.Errorf("account %s: invalid role %q", email, c.Role)
		}
		if _, dup := a.byEmail[email]; dup {
			return nil, fmt.Errorf("duplicate account %s", email)
		}
		hash, err := security.HashPassword(c.Password, cfg)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", email, err)
		}
		acc := Account{Email: email, Name: c.Name, Role: c.Role, PasswordHash: hash}
		a.byEmail[email] = acc
		if _, ok := a.byRole[c.Role]; !ok {
			a.byRole[c.Role] = acc
		}
	}
	return a, nil
}

// Authenticate returns the account when email and password match.
func (a *Accounts) Authenticate(email, password string) (Account, bool, error) {
	acc, ok := a.byEmail[normalizeEmail(email)]
	if !ok || password == "" {
		return Account{}, false, nil
	}
	match, err := security.VerifyPassword(password, acc.PasswordHash)
	if err != nil {
		return Account{}, false, err
	}
	if !match {
		return Account{}, false, nil
	}
	return acc, true, nil
}

// ForRole returns the quick-login account of a role.
func (a *Accounts) ForRole(role enums.Role) (Account, bool) {
	acc, ok := a.byRole[role]
	return acc, ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
