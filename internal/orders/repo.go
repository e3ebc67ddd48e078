package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// CreateOrder inserts the order row only; items are written by CreateItems.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateItems bulk inserts the order items in one statement.
func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Product").Create(&items).Error
}

// FindByID loads an order with its items and their products.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("id ASC") }).
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Count(ctx context.Context, q ListQuery) (int64, error) {
	var total int64
	err := r.filtered(ctx, q).Model(&models.Order{}).Count(&total).Error
	return total, err
}

// List returns one page of orders, newest first, with items preloaded so
// totals can be computed.
func (r *repository) List(ctx context.Context, q ListQuery) ([]models.Order, error) {
	query := r.filtered(ctx, q).Preload("Items").Order("created_at DESC").Order("id ASC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	var out []models.Order
	err := query.Find(&out).Error
	return out, err
}

func (r *repository) SetPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("paid", paid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) filtered(ctx context.Context, q ListQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	switch q.Paid {
	case enums.OrderPaidFilterPaid:
		query = query.Where("paid = ?", true)
	case enums.OrderPaidFilterUnpaid:
		query = query.Where("paid = ?", false)
	}
	return query
}
