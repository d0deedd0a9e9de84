package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/pkg/db/models"
)

// ProductDTO is the API shape of one catalog entry.
type ProductDTO struct {
	ID             uuid.UUID `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Unit           string    `json:"unit"`
	PriceVND       int64     `json:"price_vnd"`
	ConversionRate int       `json:"conversion_rate"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU            string
	Name           string
	Unit           string
	PriceVND       int64
	ConversionRate int
	IsActive       bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name           *string
	Unit           *string
	PriceVND       *int64
	ConversionRate *int
	IsActive       *bool
}

func toProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:             product.ID,
		SKU:            product.SKU,
		Name:           product.Name,
		Unit:           product.Unit,
		PriceVND:       product.PriceVND,
		ConversionRate: product.ConversionRate,
		IsActive:       product.IsActive,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}
