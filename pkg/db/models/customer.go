package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a pharmacy or clinic served by the distributor. HubCode groups
// customers into a sales territory.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Phone     *string   `gorm:"column:phone"`
	Address   string    `gorm:"column:address;not null"`
	Latitude  float64   `gorm:"column:latitude;not null;default:0"`
	Longitude float64   `gorm:"column:longitude;not null;default:0"`
	HubCode   string    `gorm:"column:hub_code;not null;default:''"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
