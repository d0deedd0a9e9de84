package customers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medlinkvn/dms-backend/pkg/db/models"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
)

// Repository persists the customer directory.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads one customer.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, err
	}
	return &customer, nil
}

// ListActiveByHub returns every active customer in the hub. Distance sorting
// happens in the service since the rep position changes per request.
func (r *Repository) ListActiveByHub(ctx context.Context, hubCode string) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND hub_code = ?", true, hubCode).
		Order("name ASC, id ASC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// ListPage returns one keyset page ordered by creation time descending.
func (r *Repository) ListPage(ctx context.Context, hubCode string, cursorCreatedAt *time.Time, cursorID *uuid.UUID, limit int) ([]models.Customer, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ? AND hub_code = ?", true, hubCode).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursorCreatedAt != nil && cursorID != nil {
		query = query.Where("(created_at, id) < (?, ?)", *cursorCreatedAt, *cursorID)
	}
	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
