package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medlinkvn/dms-backend/pkg/db/models"
	"github.com/medlinkvn/dms-backend/pkg/enums"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
)

// repository is the GORM-backed implementation of Repository.
type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// CreateOrder inserts the order with its items.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads the order with its items.
func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}

// ReplaceItems drops the order's items and writes the new set. Used by the
// revision flow inside a transaction.
func (r *repository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// UpdateOrder saves the mutated order record without touching items.
func (r *repository) UpdateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(order).Error
}

// UpdateStatus moves the order to the target status, guarding the current
// status in the WHERE clause so concurrent transitions cannot both win.
func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, stampColumn string, stampedAt time.Time) error {
	updates := map[string]any{"status": to, "updated_at": stampedAt}
	if stampColumn != "" {
		updates[stampColumn] = stampedAt
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
	}
	return nil
}

// ListByRep returns one keyset page of the rep's orders, newest first.
func (r *repository) ListByRep(ctx context.Context, repID uuid.UUID, cursorCreatedAt *time.Time, cursorID *uuid.UUID, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("sales_rep_id = ?", repID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursorCreatedAt != nil && cursorID != nil {
		query = query.Where("(created_at, id) < (?, ?)", *cursorCreatedAt, *cursorID)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListActivePromotionRules returns the rules promotions are evaluated against.
func (r *repository) ListActivePromotionRules(ctx context.Context) ([]models.PromotionRule, error) {
	var rules []models.PromotionRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("threshold_vnd DESC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
