package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a customer or staff account. Email may be blank and is not
// unique; username is the unique handle.
type User struct {
	ID           uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	Username     string       `gorm:"column:username;size:150;not null;uniqueIndex"`
	Email        string       `gorm:"column:email;not null;index"`
	PasswordHash string       `gorm:"column:password_hash;not null"`
	FirstName    string       `gorm:"column:first_name;size:150;not null"`
	LastName     string       `gorm:"column:last_name;size:150;not null"`
	IsActive     bool         `gorm:"column:is_active;not null"`
	IsStaff      bool         `gorm:"column:is_staff;not null"`
	LastLoginAt  *time.Time   `gorm:"column:last_login_at"`
	Profile      *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
