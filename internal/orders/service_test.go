package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/db/dbtest"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
)

func TestRepositoryCreateAndLoad(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)

	category := dbtest.SeedCategory(t, conn, "Art", "art")
	poster := dbtest.SeedProduct(t, conn, category.ID, "Print", "poster", "15.00")
	frame := dbtest.SeedProduct(t, conn, category.ID, "Frame", "frame", "22.50")

	order, err := repo.CreateOrder(ctx, &models.Order{FullName: "Ana", Email: "ana@example.com", Address: "Street 1", City: "Town", PostalCode: "123", Paid: true})
	require.NoError(t, err)

	require.NoError(t, repo.CreateItems(ctx, []models.OrderItem{
		{OrderID: order.ID, ProductID: poster.ID, Price: poster.Price, Quantity: 2},
		{OrderID: order.ID, ProductID: frame.ID, Price: frame.Price, Quantity: 1},
	}))
	require.NoError(t, repo.CreateItems(ctx, nil))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.NotNil(t, loaded.Items[0].Product)
	assert.True(t, loaded.Total().Equal(decimal.RequireFromString("52.50")))
}

func TestServiceListFiltersAndToggles(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	category := dbtest.SeedCategory(t, conn, "Toys", "toys")
	ball := dbtest.SeedProduct(t, conn, category.ID, "Ball", "ball", "3.00")
	paid := dbtest.SeedOrder(t, conn, ball)
	unpaid := dbtest.SeedOrder(t, conn, ball)
	_, err = svc.SetPaid(ctx, unpaid.ID, false)
	require.NoError(t, err)

	all, err := svc.List(ctx, enums.OrderPaidFilterAll, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, all.Orders, 2)
	assert.Equal(t, []int{1}, all.PageRange)

	onlyPaid, err := svc.List(ctx, enums.OrderPaidFilterPaid, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, onlyPaid.Orders, 1)
	assert.Equal(t, paid.ID, onlyPaid.Orders[0].ID)
	assert.True(t, onlyPaid.Orders[0].Total.Equal(decimal.RequireFromString("3.00")))

	onlyUnpaid, err := svc.List(ctx, enums.OrderPaidFilterUnpaid, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, onlyUnpaid.Orders, 1)
	assert.Equal(t, unpaid.ID, onlyUnpaid.Orders[0].ID)

	_, err = svc.List(ctx, enums.OrderPaidFilter("bogus"), pagination.Params{})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	detail, err := svc.Get(ctx, paid.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Ball", detail.Items[0].ProductTitle)

	_, err = svc.Get(ctx, uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.SetPaid(ctx, uuid.New(), true)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
