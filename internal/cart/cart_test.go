package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type stubProducts struct {
	items   map[uuid.UUID]*models.Product
	lookups int
	err     error
}

func newStubProducts(products ...*models.Product) *stubProducts {
	s := &stubProducts{items: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		s.items[p.ID] = p
	}
	return s
}

func (s *stubProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.items[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProducts) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	s.lookups++
	var out []models.Product
	for _, id := range ids {
		if p, ok := s.items[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func product(title, price string) *models.Product {
	return &models.Product{ID: uuid.New(), Title: title, Price: decimal.RequireFromString(price), InStock: true}
}

func TestCartAddAccumulatesAndOverrides(t *testing.T) {
	ctx := context.Background()
	seven := product("Seven", "4.25")
	products := newStubProducts(seven)
	sess := session.New("s1")

	c, err := Load(sess, products)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	require.NoError(t, c.Add(ctx, seven.ID, 2, false))
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Add(ctx, seven.ID, 3, false))
	entry, ok := c.Entry(seven.ID)
	require.True(t, ok)
	assert.Equal(t, 5, entry.Quantity)

	require.NoError(t, c.Add(ctx, seven.ID, 1, true))
	entry, _ = c.Entry(seven.ID)
	assert.Equal(t, 1, entry.Quantity)
	assert.True(t, sess.Modified())
}

func TestCartAddRefreshesPriceSnapshot(t *testing.T) {
	ctx := context.Background()
	item := product("Widget", "10.00")
	products := newStubProducts(item)

	c, err := Load(session.New("s1"), products)
	require.NoError(t, err)
	require.NoError(t, c.Add(ctx, item.ID, 1, false))

	item.Price = decimal.RequireFromString("12.00")
	entry, _ := c.Entry(item.ID)
	assert.True(t, entry.Price.Equal(decimal.RequireFromString("10.00")), "snapshot kept until next add")

	require.NoError(t, c.Add(ctx, item.ID, 1, false))
	entry, _ = c.Entry(item.ID)
	assert.True(t, entry.Price.Equal(decimal.RequireFromString("12.00")))
	assert.True(t, c.Total().Equal(decimal.RequireFromString("24.00")))
}

func TestCartAddRejectsUnknownProductAndBadQuantity(t *testing.T) {
	ctx := context.Background()
	known := product("Known", "1.00")
	sess := session.New("s1")
	c, err := Load(sess, newStubProducts(known))
	require.NoError(t, err)

	err = c.Add(ctx, uuid.New(), 1, false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.True(t, c.IsEmpty())
	assert.False(t, sess.Modified())

	err = c.Add(ctx, known.ID, 0, false)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.True(t, c.IsEmpty())
}

func TestCartAddSurfacesLookupFailures(t *testing.T) {
	products := newStubProducts()
	products.err = errors.New("db down")
	c, err := Load(session.New("s1"), products)
	require.NoError(t, err)

	err = c.Add(context.Background(), uuid.New(), 1, false)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestCartRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	a, b := product("A", "1.00"), product("B", "2.00")
	c, err := Load(session.New("s1"), newStubProducts(a, b))
	require.NoError(t, err)
	require.NoError(t, c.Add(ctx, a.ID, 1, false))
	require.NoError(t, c.Add(ctx, b.ID, 2, false))

	require.NoError(t, c.Remove(uuid.New()))
	assert.Equal(t, 3, c.Len())

	require.NoError(t, c.Remove(a.ID))
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Total().IsZero())
}

func TestCartLinesSkipsMissingProducts(t *testing.T) {
	ctx := context.Background()
	apple, banana := product("Apple", "0.50"), product("Banana", "0.25")
	products := newStubProducts(apple, banana)
	c, err := Load(session.New("s1"), products)
	require.NoError(t, err)
	require.NoError(t, c.Add(ctx, banana.ID, 4, false))
	require.NoError(t, c.Add(ctx, apple.ID, 2, false))

	delete(products.items, banana.ID)

	lines, err := c.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, apple.ID, lines[0].Product.ID)
	assert.True(t, lines[0].Subtotal().Equal(decimal.RequireFromString("1.00")))

	first := c.Total()
	_, err = c.Lines(ctx)
	require.NoError(t, err)
	assert.True(t, first.Equal(c.Total()), "total is stable across Lines calls")
	assert.Equal(t, 2, products.lookups, "every Lines call queries the catalog")
}

func TestCartRoundTripsThroughSession(t *testing.T) {
	ctx := context.Background()
	item := product("Lamp", "19.99")
	products := newStubProducts(item)
	sess := session.New("s1")

	c, err := Load(sess, products)
	require.NoError(t, err)
	require.NoError(t, c.Add(ctx, item.ID, 3, false))

	reloaded, err := Load(sess, products)
	require.NoError(t, err)
	entry, ok := reloaded.Entry(item.ID)
	require.True(t, ok)
	assert.Equal(t, 3, entry.Quantity)
	assert.True(t, entry.Price.Equal(decimal.RequireFromString("19.99")))

	var raw map[string]Entry
	found, err := sess.Get(SessionKey, &raw)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, raw, item.ID.String())
}

func TestLoadIgnoresMalformedEntries(t *testing.T) {
	sess := session.New("s1")
	require.NoError(t, sess.Set(SessionKey, map[string]Entry{
		"not-a-uuid":     {Quantity: 1, Price: decimal.NewFromInt(1)},
		uuid.NewString(): {Quantity: 0, Price: decimal.NewFromInt(1)},
	}))

	c, err := Load(sess, newStubProducts())
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}
