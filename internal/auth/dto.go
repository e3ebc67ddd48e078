package auth

import (
	"strings"

	"github.com/angelmondragon/storefront/internal/users"
)

// NonFieldErrorsKey holds validation errors that span several fields.
const NonFieldErrorsKey = "non_field_errors"

// LoginRequest captures the identifier (email or phone) and password.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Password   string `json:"password" validate:"required"`
}

// RegisterRequest is the sign-up form. Email and phone are individually
// optional but at least one is required.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,max=150"`
	FirstName       string `json:"first_name" validate:"required,max=150"`
	LastName        string `json:"last_name" validate:"required,max=150"`
	Email           string `json:"email" validate:"omitempty,email,max=254"`
	Phone           string `json:"phone" validate:"omitempty,max=32"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// ValidateForm reports blank required fields and cross-field errors keyed by
// field, or NonFieldErrorsKey for form-level problems.
func (r RegisterRequest) ValidateForm() map[string]string {
	errs := map[string]string{}
	for field, value := range map[string]string{
		"username":         r.Username,
		"first_name":       r.FirstName,
		"last_name":        r.LastName,
		"password":         r.Password,
		"password_confirm": r.PasswordConfirm,
	} {
		if strings.TrimSpace(value) == "" {
			errs[field] = "is required"
		}
	}
	if strings.TrimSpace(r.Email) == "" && strings.TrimSpace(r.Phone) == "" {
		errs[NonFieldErrorsKey] = "provide an email or a phone number"
	}
	if _, blank := errs["password_confirm"]; !blank && r.PasswordConfirm != r.Password {
		errs["password_confirm"] = "passwords do not match"
	}
	return errs
}

// LoginResponse describes the authenticated account.
type LoginResponse struct {
	User *users.UserDTO `json:"user"`
}

// RegisterResponse describes the new account and whether it was logged in.
type RegisterResponse struct {
	User     *users.UserDTO `json:"user"`
	LoggedIn bool           `json:"logged_in"`
	Message  string         `json:"-"`
}
