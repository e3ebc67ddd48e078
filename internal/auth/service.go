package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/internal/users"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, sess *session.Session, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, sess *session.Session) error
	Me(ctx context.Context, sess *session.Session) (*users.UserDTO, error)
}

type authenticator interface {
	Authenticate(ctx context.Context, identifier, password string) (*models.User, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// passwordUpdater is implemented by repositories that can store an upgraded
// password hash after a successful login.
type passwordUpdater interface {
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionManager interface {
	Login(ctx context.Context, s *session.Session, userID uuid.UUID) error
	Flush(ctx context.Context, s *session.Session) error
}

type service struct {
	resolver    authenticator
	users       userRepository
	sessions    sessionManager
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// ServiceParams bundles the dependencies required to build an auth service.
// With a PasswordConfig set, hashes made with outdated argon2 costs are
// upgraded on login.
type ServiceParams struct {
	Resolver       authenticator
	UserRepo       userRepository
	SessionManager sessionManager
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		resolver:    params.Resolver,
		users:       params.UserRepo,
		sessions:    params.SessionManager,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

func (s *service) Login(ctx context.Context, sess *session.Session, req LoginRequest) (*LoginResponse, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session unavailable")
	}
	user, err := s.resolver.Authenticate(ctx, req.Identifier, req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "authenticate")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	s.upgradePassword(ctx, user, req.Password)

	if err := s.startSession(ctx, sess, user); err != nil {
		return nil, err
	}
	return &LoginResponse{User: users.FromModel(user)}, nil
}

func (s *service) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.sessions.Flush(ctx, sess); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "end session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, sess *session.Session) (*users.UserDTO, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	userID, ok := sess.UserID()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) startSession(ctx context.Context, sess *session.Session, user *models.User) error {
	if err := s.sessions.Login(ctx, sess, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start session")
	}
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return nil
}

// upgradePassword rehashes the password with the configured costs. Failures
// are logged and never block the login.
func (s *service) upgradePassword(ctx context.Context, user *models.User, password string) {
	updater, ok := s.users.(passwordUpdater)
	if !ok || s.passwordCfg.ArgonMemoryKB <= 0 || !security.NeedsRehash(user.PasswordHash, s.passwordCfg) {
		return
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		err = updater.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithUserID(ctx, user.ID.String()), "auth.password_upgrade_failed", err)
		}
		return
	}
	user.PasswordHash = hash
}
