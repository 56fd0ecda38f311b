package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/kasir-pos/internal/session"
	pkgAuth "github.com/angelmondragon/kasir-pos/pkg/auth"
	"github.com/angelmondragon/kasir-pos/pkg/config"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
)

const invalidCredentialsMessage = "invalid email or password"

const (
	loginResultSuccess = "success"
	loginResultFailure = "failure"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	QuickLogin(ctx context.Context, role enums.Role) (*LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (*SessionResponse, error)
}

type sessionEnder interface {
	EndSession(ctx context.Context, sessionID string) error
}

type loginRecorder interface {
	IncLogin(result string)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Accounts   *Accounts
	Sessions   session.Store
	JWTConfig  config.JWTConfig
	QuickLogin bool
	// Terminals is torn down on logout. Optional.
	Terminals sessionEnder
	Metrics   loginRecorder
	Logger    *logger.Logger
	Clock     func() time.Time
}

type service struct {
	accounts   *Accounts
	sessions   session.Store
	jwtCfg     config.JWTConfig
	quickLogin bool
	terminals  sessionEnder
	metrics    loginRecorder
	logg       *logger.Logger
	now        func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Accounts == nil {
		return nil, fmt.Errorf("accounts are required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		accounts:   params.Accounts,
		sessions:   params.Sessions,
		jwtCfg:     params.JWTConfig,
		quickLogin: params.QuickLogin,
		terminals:  params.Terminals,
		metrics:    params.Metrics,
		logg:       logg,
		now:        now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	acc, ok, err := s.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		s.record(loginResultFailure)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		s.record(loginResultFailure)
		s.logg.Warn(s.logg.WithField(ctx, "email", normalizeEmail(req.Email)), "auth.login_failed")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return s.open(ctx, acc)
}

func (s *service) QuickLogin(ctx context.Context, role enums.Role) (*LoginResponse, error) {
	if !s.quickLogin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "quick login is disabled")
	}
	acc, ok := s.accounts.ForRole(role)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no demo account for role").
			WithDetails(map[string]any{"role": role})
	}
	return s.open(ctx, acc)
}

// Logout clears the stored session and closes its cashier terminal.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	if s.terminals != nil {
		if err := s.terminals.EndSession(ctx, sessionID); err != nil {
			return err
		}
	}
	s.logg.Info(s.logg.WithSessionID(ctx, sessionID), "auth.logout")
	return nil
}

func (s *service) Current(ctx context.Context, sessionID string) (*SessionResponse, error) {
	stored, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if stored == nil {
		return nil, pkgerrors.New(pkgerrors.CodeRedirect, "session not found").
			WithDetails(map[string]any{"route": enums.RouteLogin})
	}
	return &SessionResponse{Session: *stored, Route: enums.HomeRoute(stored.Role)}, nil
}

func (s *service) open(ctx context.Context, acc Account) (*LoginResponse, error) {
	now := s.now().UTC()
	sess := session.Session{
		ID:        session.NewID(),
		Email:     acc.Email,
		Role:      acc.Role,
		Name:      acc.Name,
		CreatedAt: now,
	}
	token, err := pkgAuth.MintSessionToken(s.jwtCfg, now, pkgAuth.SessionTokenPayload{
		SessionID: sess.ID,
		Email:     sess.Email,
		Name:      sess.Name,
		Role:      sess.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}
	s.record(loginResultSuccess)

	logCtx := s.logg.WithActorRole(s.logg.WithSessionID(ctx, sess.ID), sess.Role.String())
	s.logg.Info(logCtx, "auth.login")

	return &LoginResponse{AccessToken: token, Session: sess, Route: enums.HomeRoute(sess.Role)}, nil
}

func (s *service) record(result string) {
	if s.metrics != nil {
		s.metrics.IncLogin(result)
	}
}
