package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. PriceVND is the price of one base unit; a case
// ("thùng") holds ConversionRate base units.
type Product struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU            string    `gorm:"column:sku;not null;uniqueIndex"`
	Name           string    `gorm:"column:name;not null"`
	Unit           string    `gorm:"column:unit;not null"`
	PriceVND       int64     `gorm:"column:price_vnd;not null"`
	ConversionRate int       `gorm:"column:conversion_rate;not null;default:1"`
	IsActive       bool      `gorm:"column:is_active;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
