package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/pagination"
)

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Category    *CategoryDTO    `json:"category,omitempty"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image,omitempty"`
	InStock     bool            `json:"in_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HomeResult carries the landing page listing.
type HomeResult struct {
	Categories []CategoryDTO `json:"categories"`
	Products   []ProductDTO  `json:"products"`
}

// ListInput captures the browse filters.
type ListInput struct {
	CategorySlug string
	Query        string
	Pagination   pagination.Params
}

// ListResult is one page of the product listing. PageRange uses
// pagination.Ellipsis for gaps.
type ListResult struct {
	Category   *CategoryDTO    `json:"category,omitempty"`
	Categories []CategoryDTO   `json:"categories"`
	Products   []ProductDTO    `json:"products"`
	Query      string          `json:"q,omitempty"`
	Page       pagination.Page `json:"page_obj"`
	PageRange  []int           `json:"page_range"`
}

// ProductDetail is a single product plus the category list for navigation.
type ProductDetail struct {
	Product    ProductDTO    `json:"product"`
	Categories []CategoryDTO `json:"categories"`
}

// CategoryInput is the admin payload for categories. A blank slug is derived
// from the name.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=120"`
	Slug string `json:"slug" validate:"omitempty,max=140"`
}

// ProductInput is the admin payload for products. A blank slug is derived
// from the title.
type ProductInput struct {
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
	Title       string          `json:"title" validate:"required,max=200"`
	Slug        string          `json:"slug" validate:"omitempty,max=220"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image,omitempty"`
	InStock     *bool           `json:"in_stock,omitempty"`
}

// ValidateForm checks the price bounds of numeric(10,2).
func (p ProductInput) ValidateForm() map[string]string {
	errs := map[string]string{}
	if p.Price.IsNegative() {
		errs["price"] = "must not be negative"
	} else if p.Price.GreaterThanOrEqual(maxPrice) {
		errs["price"] = "must have at most 8 integer digits"
	} else if !p.Price.Equal(p.Price.Round(2)) {
		errs["price"] = "must have at most 2 decimal places"
	}
	return errs
}

// AdminProductList is the staff product listing, stock included.
type AdminProductList struct {
	Products []ProductDTO    `json:"products"`
	Page     pagination.Page `json:"page_obj"`
}

var maxPrice = decimal.New(1, 8)

func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func categoriesFromModels(in []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(in))
	for i := range in {
		out = append(out, *CategoryFromModel(&in[i]))
	}
	return out
}

func ProductFromModel(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Category:    CategoryFromModel(p.Category),
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func productsFromModels(in []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(in))
	for i := range in {
		out = append(out, ProductFromModel(&in[i]))
	}
	return out
}
