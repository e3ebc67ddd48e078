package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

func TestServiceAgainstCatalog(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	category := dbtest.SeedCategory(t, conn, "Kitchen", "kitchen")
	pan := dbtest.SeedProduct(t, conn, category.ID, "Pan", "pan", "30.00")
	pot := dbtest.SeedProduct(t, conn, category.ID, "Pot", "pot", "45.50")

	svc, err := NewService(catalog.NewRepository(conn))
	require.NoError(t, err)
	sess := session.New("s1")

	view, err := svc.Add(ctx, sess, AddInput{ProductID: pan.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count, "quantity defaults to 1")

	view, err = svc.Add(ctx, sess, AddInput{ProductID: pot.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Pan", view.Items[0].Product.Title)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("121.00")))

	view, err = svc.Update(ctx, sess, pot.ID, UpdateInput{Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)

	view, err = svc.Remove(ctx, sess, pan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)

	count, err := svc.Count(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = svc.Add(ctx, sess, AddInput{ProductID: uuid.New()})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	require.NoError(t, svc.Clear(ctx, sess))
	view, err = svc.Get(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}
