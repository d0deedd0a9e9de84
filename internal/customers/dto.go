package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/pkg/db/models"
)

// CustomerDTO is the API shape of one pharmacy customer. DistanceKM is set
// only on distance-sorted listings.
type CustomerDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Phone      *string   `json:"phone,omitempty"`
	Address    string    `json:"address"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	HubCode    string    `json:"hub_code"`
	DistanceKM *float64  `json:"distance_km,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCustomerDTO(record *models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        record.ID,
		Name:      record.Name,
		Phone:     record.Phone,
		Address:   record.Address,
		Latitude:  record.Latitude,
		Longitude: record.Longitude,
		HubCode:   record.HubCode,
		CreatedAt: record.CreatedAt,
	}
}
