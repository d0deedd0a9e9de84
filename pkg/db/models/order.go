package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/pkg/enums"
	"github.com/medlinkvn/dms-backend/pkg/types"
)

// Order is a persisted submission. Monetary columns are whole VND.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	SalesRepID  uuid.UUID         `gorm:"column:sales_rep_id;type:uuid;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'PENDING'"`
	TotalVND    int64             `gorm:"column:total_vnd;not null"`
	DiscountVND int64             `gorm:"column:discount_vnd;not null;default:0"`
	FinalVND    int64             `gorm:"column:final_vnd;not null"`
	Promotions  types.Promotions  `gorm:"column:promotions;type:jsonb;serializer:json"`
	Notes       *string           `gorm:"column:notes"`
	ConfirmedAt *time.Time        `gorm:"column:confirmed_at"`
	DeliveredAt *time.Time        `gorm:"column:delivered_at"`
	CancelledAt *time.Time        `gorm:"column:cancelled_at"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
