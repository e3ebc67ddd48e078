package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is created once at checkout together with its items. Only Paid may
// change afterwards.
type Order struct {
	ID         uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	FullName   string      `gorm:"column:full_name;size:200;not null"`
	Email      string      `gorm:"column:email;not null"`
	Address    string      `gorm:"column:address;size:300;not null"`
	City       string      `gorm:"column:city;size:120;not null"`
	PostalCode string      `gorm:"column:postal_code;size:20;not null"`
	Paid       bool        `gorm:"column:paid;not null"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Total sums the subtotals of the loaded items.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
