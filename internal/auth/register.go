package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/internal/users"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/security"
)

// ManualLoginMessage is surfaced when the account was created but the
// automatic sign-in did not go through.
const ManualLoginMessage = "Registration succeeded, please log in."

// RegisterService handles the sign-up transaction.
type RegisterService interface {
	Register(ctx context.Context, sess *session.Session, req RegisterRequest) (*RegisterResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
	Resolver       authenticator
	SessionManager sessionManager
	Logger         *logger.Logger
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
	resolver    authenticator
	sessions    sessionManager
	logg        *logger.Logger
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "resolver required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
		resolver:    params.Resolver,
		sessions:    params.SessionManager,
		logg:        params.Logger,
	}, nil
}

func (s *registerService) Register(ctx context.Context, sess *session.Session, req RegisterRequest) (*RegisterResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if details := req.ValidateForm(); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		taken, err := userRepo.UsernameExists(ctx, req.Username)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}
		if taken {
			return usernameTaken()
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return usernameTaken()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		profile, err := userRepo.CreateProfile(ctx, user.ID, req.Phone)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}
		user.Profile = profile
		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Ensure(err, "register user")
	}

	resp := &RegisterResponse{User: created}
	if err := s.signIn(ctx, sess, req); err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithField(ctx, "error", err.Error())
			s.logg.Warn(logCtx, "auth.register.auto_login_failed")
		}
		resp.Message = ManualLoginMessage
		return resp, nil
	}
	resp.LoggedIn = true
	return resp, nil
}

// signIn authenticates the fresh account through the regular resolver so the
// same identifier rules apply as on the login form.
func (s *registerService) signIn(ctx context.Context, sess *session.Session, req RegisterRequest) error {
	if sess == nil {
		return errors.New("session unavailable")
	}
	identifier := req.Email
	if identifier == "" {
		identifier = req.Phone
	}
	user, err := s.resolver.Authenticate(ctx, identifier, req.Password)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("identifier did not resolve to the new account")
	}
	return s.sessions.Login(ctx, sess, user.ID)
}

func usernameTaken() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeConflict, "username already taken").
		WithDetails(map[string]string{"username": "a user with that username already exists"})
}
