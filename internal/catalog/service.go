package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/internal/cart"
	"github.com/medlinkvn/dms-backend/pkg/db/models"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
)

// Service exposes catalog reads for ordering plus admin product management.
type Service interface {
	ListProducts(ctx context.Context, includeInactive bool) ([]ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Snapshot(ctx context.Context, productIDs []uuid.UUID) (*Snapshot, error)
}

type productLister interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, includeInactive bool) ([]models.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
}

type service struct {
	repo productLister
}

// NewService wires the catalog service.
func NewService(repo productLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// Snapshot is an immutable pricing view taken once per request. Everything
// priced within one submission sees the same rates and prices.
type Snapshot struct {
	products map[uuid.UUID]cart.Product
}

// NewSnapshot builds a pricing view from already-normalized products.
func NewSnapshot(products ...cart.Product) *Snapshot {
	byID := make(map[uuid.UUID]cart.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Snapshot{products: byID}
}

// Resolve implements the cart engine's catalog lookup.
func (s *Snapshot) Resolve(productID uuid.UUID) (cart.Product, bool) {
	p, ok := s.products[productID]
	return p, ok
}

// Len returns the number of products in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.products)
}

// Snapshot loads the given products into a pricing view. Unknown ids are
// silently absent so stale cart lines price to zero instead of failing the
// whole request.
func (s *service) Snapshot(ctx context.Context, productIDs []uuid.UUID) (*Snapshot, error) {
	records, err := s.repo.ListByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading catalog snapshot")
	}
	products := make(map[uuid.UUID]cart.Product, len(records))
	for _, record := range records {
		products[record.ID] = toEngineProduct(&record)
	}
	return &Snapshot{products: products}, nil
}

func toEngineProduct(record *models.Product) cart.Product {
	rate := record.ConversionRate
	if rate < 1 {
		rate = 1
	}
	return cart.Product{
		ID:             record.ID,
		SKU:            record.SKU,
		Name:           record.Name,
		Unit:           record.Unit,
		PriceVND:       record.PriceVND,
		ConversionRate: rate,
	}
}

// ListProducts returns the catalog. Only admin callers pass includeInactive.
func (s *service) ListProducts(ctx context.Context, includeInactive bool) ([]ProductDTO, error) {
	records, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	dtos := make([]ProductDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *toProductDTO(&records[i]))
	}
	return dtos, nil
}

// GetProduct returns one product by id.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	record, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProductDTO(record), nil
}

// CreateProduct validates and inserts a catalog entry.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductInput(input.SKU, input.Name, input.Unit, input.PriceVND, input.ConversionRate); err != nil {
		return nil, err
	}
	record := &models.Product{
		SKU:            strings.TrimSpace(input.SKU),
		Name:           strings.TrimSpace(input.Name),
		Unit:           strings.TrimSpace(input.Unit),
		PriceVND:       input.PriceVND,
		ConversionRate: normalizeRate(input.ConversionRate),
		IsActive:       input.IsActive,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return toProductDTO(created), nil
}

// UpdateProduct applies the provided mutations.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	record, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		record.Name = strings.TrimSpace(*input.Name)
	}
	if input.Unit != nil {
		record.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.PriceVND != nil {
		if *input.PriceVND < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		record.PriceVND = *input.PriceVND
	}
	if input.ConversionRate != nil {
		if *input.ConversionRate < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversion rate must be at least 1")
		}
		record.ConversionRate = *input.ConversionRate
	}
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
	}
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return toProductDTO(updated), nil
}

func validateProductInput(sku, name, unit string, priceVND int64, conversionRate int) error {
	if strings.TrimSpace(sku) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product sku is required")
	}
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(unit) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product unit is required")
	}
	if priceVND < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if conversionRate < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "conversion rate must not be negative")
	}
	return nil
}

func normalizeRate(rate int) int {
	if rate < 1 {
		return 1
	}
	return rate
}
