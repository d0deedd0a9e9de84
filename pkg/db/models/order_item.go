package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one product line at submission time. Quantity is flat
// base units; the case/each split is a cart-session concern and is not stored.
type OrderItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName  string    `gorm:"column:product_name;not null"`
	Unit         string    `gorm:"column:unit;not null"`
	Quantity     int       `gorm:"column:quantity;not null"`
	UnitPriceVND int64     `gorm:"column:unit_price_vnd;not null"`
	LineTotalVND int64     `gorm:"column:line_total_vnd;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
