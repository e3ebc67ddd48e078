package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// SessionKey is the session slot holding the serialized cart.
const SessionKey = "cart"

// Entry is the stored state of one product in the cart. Price is the
// snapshot taken on the last add.
type Entry struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Line joins an entry with the live product.
type Line struct {
	Product  models.Product
	Quantity int
	Price    decimal.Decimal
}

// Subtotal is price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ProductLookup is the catalog surface the cart reads from.
type ProductLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Cart is the typed view over the session slot. Mutations are written back
// into the session; persisting the session is up to the caller.
type Cart struct {
	sess     *session.Session
	products ProductLookup
	entries  map[uuid.UUID]Entry
}

// Load decodes the cart stored in sess. A missing slot yields an empty cart.
func Load(sess *session.Session, products ProductLookup) (*Cart, error) {
	if sess == nil {
		return nil, fmt.Errorf("session is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup is required")
	}

	raw := map[string]Entry{}
	if _, err := sess.Get(SessionKey, &raw); err != nil {
		return nil, err
	}

	entries := make(map[uuid.UUID]Entry, len(raw))
	for key, entry := range raw {
		id, err := uuid.Parse(key)
		if err != nil || entry.Quantity < 1 {
			continue
		}
		entries[id] = entry
	}
	return &Cart{sess: sess, products: products, entries: entries}, nil
}

// Add stores quantity of the product, adding to the current quantity unless
// override is set. The price snapshot is refreshed from the catalog either
// way. Unknown products leave the cart untouched.
func (c *Cart) Add(ctx context.Context, productID uuid.UUID, quantity int, override bool) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"quantity": "must be at least 1"})
	}

	product, err := c.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	entry := c.entries[productID]
	if override {
		entry.Quantity = quantity
	} else {
		entry.Quantity += quantity
	}
	entry.Price = product.Price
	c.entries[productID] = entry
	return c.save()
}

// Remove drops the product from the cart. Absent products are a no-op.
func (c *Cart) Remove(productID uuid.UUID) error {
	if _, ok := c.entries[productID]; !ok {
		return nil
	}
	delete(c.entries, productID)
	return c.save()
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	c.entries = map[uuid.UUID]Entry{}
	return c.save()
}

// Len is the total number of units in the cart.
func (c *Cart) Len() int {
	n := 0
	for _, entry := range c.entries {
		n += entry.Quantity
	}
	return n
}

// IsEmpty reports whether the cart holds no entries.
func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

// Total sums price times quantity over every stored entry.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c.entries {
		total = total.Add(entry.Price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
	}
	return total
}

// Entry returns the stored entry for productID.
func (c *Cart) Entry(productID uuid.UUID) (Entry, bool) {
	entry, ok := c.entries[productID]
	return entry, ok
}

// Lines loads the products behind the entries in a single query and returns
// them ordered by title. Entries whose product no longer exists are skipped.
func (c *Cart) Lines(ctx context.Context) ([]Line, error) {
	if len(c.entries) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}

	products, err := c.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	lines := make([]Line, 0, len(products))
	for _, product := range products {
		entry, ok := c.entries[product.ID]
		if !ok {
			continue
		}
		lines = append(lines, Line{Product: product, Quantity: entry.Quantity, Price: entry.Price})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Product.Title != lines[j].Product.Title {
			return lines[i].Product.Title < lines[j].Product.Title
		}
		return lines[i].Product.ID.String() < lines[j].Product.ID.String()
	})
	return lines, nil
}

func (c *Cart) save() error {
	raw := make(map[string]Entry, len(c.entries))
	for id, entry := range c.entries {
		raw[id.String()] = entry
	}
	return c.sess.Set(SessionKey, raw)
}
