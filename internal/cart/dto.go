package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/catalog"
)

// AddInput is the add-to-cart form. Quantity defaults to 1 when omitted.
type AddInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1,max=1000"`
	Override  bool      `json:"override"`
}

// UpdateInput replaces the quantity of a product already in the cart.
type UpdateInput struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=1000"`
}

// LineDTO is one cart line.
type LineDTO struct {
	Product  catalog.ProductDTO `json:"product"`
	Quantity int                `json:"quantity"`
	Price    decimal.Decimal    `json:"price"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

// CartDTO is the cart payload returned to clients.
type CartDTO struct {
	Items []LineDTO       `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// CountDTO carries the number of units in the cart.
type CountDTO struct {
	Count int `json:"count"`
}

func toDTO(c *Cart, lines []Line) *CartDTO {
	items := make([]LineDTO, 0, len(lines))
	for _, line := range lines {
		product := line.Product
		items = append(items, LineDTO{
			Product:  catalog.ProductFromModel(&product),
			Quantity: line.Quantity,
			Price:    line.Price,
			Subtotal: line.Subtotal(),
		})
	}
	return &CartDTO{Items: items, Count: c.Len(), Total: c.Total()}
}
