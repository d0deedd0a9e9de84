package models

import (
	"time"

	"github.com/google/uuid"
)

// PromotionRule is a threshold discount: orders whose subtotal strictly
// exceeds ThresholdVND earn Percent off.
type PromotionRule struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Description  string    `gorm:"column:description;not null"`
	ThresholdVND int64     `gorm:"column:threshold_vnd;not null"`
	Percent      float64   `gorm:"column:percent;type:numeric(5,2);not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
