package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medlinkvn/dms-backend/pkg/db/models"
	"github.com/medlinkvn/dms-backend/pkg/enums"
)

// Repository defines persistence operations for the order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error
	UpdateOrder(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, stampColumn string, stampedAt time.Time) error
	ListByRep(ctx context.Context, repID uuid.UUID, cursorCreatedAt *time.Time, cursorID *uuid.UUID, limit int) ([]models.Order, error)
	ListActivePromotionRules(ctx context.Context) ([]models.PromotionRule, error)
}
