package checkout

import (
	"strings"

	"github.com/angelmondragon/storefront/internal/orders"
)

// EmptyCartMessage is the warning shown when checkout is attempted with an
// empty cart.
const EmptyCartMessage = "Your cart is empty."

// ShippingForm is the order creation form.
type ShippingForm struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Address    string `json:"address" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=120"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
}

func (f ShippingForm) normalized() ShippingForm {
	return ShippingForm{
		FullName:   strings.TrimSpace(f.FullName),
		Email:      strings.TrimSpace(f.Email),
		Address:    strings.TrimSpace(f.Address),
		City:       strings.TrimSpace(f.City),
		PostalCode: strings.TrimSpace(f.PostalCode),
	}
}

// ValidateForm reports fields that are blank once trimmed.
func (f ShippingForm) ValidateForm() map[string]string {
	errs := map[string]string{}
	n := f.normalized()
	for field, value := range map[string]string{
		"full_name":   n.FullName,
		"email":       n.Email,
		"address":     n.Address,
		"city":        n.City,
		"postal_code": n.PostalCode,
	} {
		if value == "" {
			errs[field] = "is required"
		}
	}
	return errs
}

// Result is the placed order plus the confirmation message.
type Result struct {
	Order   orders.OrderDTO `json:"order"`
	Message string          `json:"-"`
}
