// Package dbtest opens isolated in-memory SQLite databases migrated with the
// storefront models for repository and service tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

// Open returns a fresh database with foreign keys enforced.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// SeedCategory inserts a category with the given name and slug.
func SeedCategory(t *testing.T, conn *gorm.DB, name, slug string) models.Category {
	t.Helper()
	category := models.Category{Name: name, Slug: slug}
	if err := conn.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}

// SeedProduct inserts an in-stock product priced at price.
func SeedProduct(t *testing.T, conn *gorm.DB, categoryID uuid.UUID, title, slug, price string) models.Product {
	t.Helper()
	product := models.Product{
		CategoryID: categoryID,
		Title:      title,
		Slug:       slug,
		Price:      decimal.RequireFromString(price),
		InStock:    true,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

// SeedOrder inserts a paid order holding one unit of each product at its
// current price.
func SeedOrder(t *testing.T, conn *gorm.DB, products ...models.Product) models.Order {
	t.Helper()
	order := models.Order{
		FullName:   "Test Buyer",
		Email:      "buyer@example.com",
		Address:    "1 Test Street",
		City:       "Testville",
		PostalCode: "00000",
		Paid:       true,
	}
	for _, product := range products {
		order.Items = append(order.Items, models.OrderItem{ProductID: product.ID, Price: product.Price, Quantity: 1})
	}
	if err := conn.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}
