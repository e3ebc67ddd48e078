package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/security"
)

type identityRepository interface {
	FindByEmail(ctx context.Context, email string) ([]models.User, error)
	FindByPhone(ctx context.Context, phone string) ([]models.User, error)
}

// Resolver maps a login identifier that may be an email or a phone number to
// exactly one account. The identifier is tried as an email first, then as a
// profile phone, always as an exact match.
type Resolver struct {
	users identityRepository
}

func NewResolver(repo identityRepository) (*Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	return &Resolver{users: repo}, nil
}

// Resolve returns the single user matching identifier, or nil when there is
// no match or the match is ambiguous. Errors are reserved for lookup failures.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*models.User, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, nil
	}

	byEmail, err := r.users.FindByEmail(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("lookup by email: %w", err)
	}
	switch len(byEmail) {
	case 1:
		return &byEmail[0], nil
	case 0:
	default:
		return nil, nil
	}

	byPhone, err := r.users.FindByPhone(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("lookup by phone: %w", err)
	}
	if len(byPhone) != 1 {
		return nil, nil
	}
	return &byPhone[0], nil
}

// Authenticate resolves identifier and verifies password. A nil user with a
// nil error means the credentials were rejected.
func (r *Resolver) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := r.Resolve(ctx, identifier)
	if err != nil || user == nil {
		return nil, err
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid || !user.IsActive {
		return nil, nil
	}
	return user, nil
}
