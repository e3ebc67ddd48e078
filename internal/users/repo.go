package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

// identifierMatchLimit is enough to tell "exactly one" from "several".
const identifierMatchLimit = 2

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile inserts the profile row linked to userID.
func (r *Repository) CreateProfile(ctx context.Context, userID uuid.UUID, phone string) (*models.UserProfile, error) {
	profile := &models.UserProfile{UserID: userID, Phone: phone}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByEmail returns up to two users whose email equals email exactly.
func (r *Repository) FindByEmail(ctx context.Context, email string) ([]models.User, error) {
	var out []models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at ASC").
		Limit(identifierMatchLimit).
		Find(&out).Error
	return out, err
}

// FindByPhone returns up to two users whose profile phone equals phone exactly.
func (r *Repository) FindByPhone(ctx context.Context, phone string) ([]models.User, error) {
	var out []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("user_profiles.phone = ?", phone).
		Order("users.created_at ASC").
		Limit(identifierMatchLimit).
		Find(&out).Error
	return out, err
}

// FindByID loads a user and its profile by UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername loads a user by its unique username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameExists reports whether the username is already taken.
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdatePasswordHash replaces the stored password hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}
