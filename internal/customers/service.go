package customers

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/pkg/db/models"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
	"github.com/medlinkvn/dms-backend/pkg/pagination"
)

const earthRadiusKM = 6371.0

// Service exposes the customer directory for sales reps.
type Service interface {
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error)
	ListNearby(ctx context.Context, input ListNearbyInput) ([]CustomerDTO, error)
	ListPage(ctx context.Context, input ListPageInput) (*CustomerPage, error)
}

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListActiveByHub(ctx context.Context, hubCode string) ([]models.Customer, error)
	ListPage(ctx context.Context, hubCode string, cursorCreatedAt *time.Time, cursorID *uuid.UUID, limit int) ([]models.Customer, error)
}

type service struct {
	repo customerLoader
}

// NewService wires the customer service.
func NewService(repo customerLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

// ListNearbyInput carries the rep's position for distance sorting.
type ListNearbyInput struct {
	HubCode   string
	Latitude  float64
	Longitude float64
	Limit     int
}

// ListPageInput carries cursor pagination inputs for the plain directory view.
type ListPageInput struct {
	HubCode string
	Params  pagination.Params
}

// CustomerPage is one keyset page of the directory.
type CustomerPage struct {
	Customers  []CustomerDTO
	NextCursor string
}

// GetCustomer returns one customer by id.
func (s *service) GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error) {
	record, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	dto := toCustomerDTO(record)
	return &dto, nil
}

// ListNearby returns the hub's active customers sorted by distance from the
// rep, nearest first. Ties break on name then id so the ordering is stable.
func (s *service) ListNearby(ctx context.Context, input ListNearbyInput) ([]CustomerDTO, error) {
	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
	}
	records, err := s.repo.ListActiveByHub(ctx, input.HubCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}

	dtos := make([]CustomerDTO, 0, len(records))
	for i := range records {
		dto := toCustomerDTO(&records[i])
		distance := haversineKM(input.Latitude, input.Longitude, records[i].Latitude, records[i].Longitude)
		dto.DistanceKM = &distance
		dtos = append(dtos, dto)
	}
	sort.Slice(dtos, func(i, j int) bool {
		if *dtos[i].DistanceKM != *dtos[j].DistanceKM {
			return *dtos[i].DistanceKM < *dtos[j].DistanceKM
		}
		if dtos[i].Name != dtos[j].Name {
			return dtos[i].Name < dtos[j].Name
		}
		return dtos[i].ID.String() < dtos[j].ID.String()
	})

	limit := pagination.NormalizeLimit(input.Limit)
	if len(dtos) > limit {
		dtos = dtos[:limit]
	}
	return dtos, nil
}

// ListPage returns one keyset page of the hub directory without distance
// sorting.
func (s *service) ListPage(ctx context.Context, input ListPageInput) (*CustomerPage, error) {
	cursor, err := pagination.ParseCursor(input.Params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	cursorCreatedAt, cursorID := cursor.Keyset()

	records, err := s.repo.ListPage(ctx, input.HubCode, cursorCreatedAt, cursorID, pagination.LimitWithBuffer(input.Params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}

	page := &CustomerPage{}
	records, hasMore := pagination.Trim(records, pagination.NormalizeLimit(input.Params.Limit))
	for i := range records {
		page.Customers = append(page.Customers, toCustomerDTO(&records[i]))
	}
	if hasMore && len(records) > 0 {
		last := records[len(records)-1]
		page.NextCursor = pagination.NextCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}

// haversineKM is the great-circle distance between two coordinates.
func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}
