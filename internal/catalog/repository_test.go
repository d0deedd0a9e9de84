package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/medlinkvn/dms-backend/pkg/db/models"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	productsDDL := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  unit TEXT NOT NULL,
  price_vnd INTEGER NOT NULL,
  conversion_rate INTEGER NOT NULL DEFAULT 1,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(productsDDL).Error)
	return db
}

func seedProduct(t *testing.T, repo *Repository, sku, name string, active bool) *models.Product {
	t.Helper()

	created, err := repo.Create(context.Background(), &models.Product{
		ID:             uuid.New(),
		SKU:            sku,
		Name:           name,
		Unit:           "hộp",
		PriceVND:       42_000,
		ConversionRate: 10,
		IsActive:       active,
	})
	require.NoError(t, err)
	return created
}

func TestRepositoryCreatePersistsInactiveFlag(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	inactive := seedProduct(t, repo, "SKU-001", "Paracetamol 500mg", false)

	found, err := repo.FindByID(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestRepositoryListFiltersInactive(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	seedProduct(t, repo, "SKU-001", "Amoxicillin 250mg", true)
	seedProduct(t, repo, "SKU-002", "Paracetamol 500mg", false)
	seedProduct(t, repo, "SKU-003", "Vitamin C 1000mg", true)

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Amoxicillin 250mg", active[0].Name)
	assert.Equal(t, "Vitamin C 1000mg", active[1].Name)

	everything, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestRepositoryListByIDsIncludesInactive(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	kept := seedProduct(t, repo, "SKU-001", "Amoxicillin 250mg", true)
	retired := seedProduct(t, repo, "SKU-002", "Paracetamol 500mg", false)

	products, err := repo.ListByIDs(ctx, []uuid.UUID{kept.ID, retired.ID})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	none, err := repo.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRepositoryFindMissingProduct(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRepositoryUpdateTogglesActive(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	product := seedProduct(t, repo, "SKU-001", "Paracetamol 500mg", true)
	product.IsActive = false

	_, err := repo.Update(ctx, product)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}
