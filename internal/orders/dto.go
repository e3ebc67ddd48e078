package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/pagination"
)

// OrderItemDTO is one frozen order line.
type OrderItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductTitle string          `json:"product_title,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID         uuid.UUID       `json:"id"`
	FullName   string          `json:"full_name"`
	Email      string          `json:"email"`
	Address    string          `json:"address"`
	City       string          `json:"city"`
	PostalCode string          `json:"postal_code"`
	Paid       bool            `json:"paid"`
	Items      []OrderItemDTO  `json:"items"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderList is one page of the staff order listing.
type OrderList struct {
	Orders    []OrderDTO      `json:"orders"`
	Page      pagination.Page `json:"page_obj"`
	PageRange []int           `json:"page_range"`
}

// SetPaidInput toggles the paid flag.
type SetPaidInput struct {
	Paid *bool `json:"paid" validate:"required"`
}

func FromModel(o *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		dto := OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		}
		if item.Product != nil {
			dto.ProductTitle = item.Product.Title
		}
		items = append(items, dto)
	}
	return OrderDTO{
		ID:         o.ID,
		FullName:   o.FullName,
		Email:      o.Email,
		Address:    o.Address,
		City:       o.City,
		PostalCode: o.PostalCode,
		Paid:       o.Paid,
		Items:      items,
		Total:      o.Total(),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
