package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryLocation is a preset address a customer has saved, e.g.
// "Home" or "Office".
type DeliveryLocation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:ix_delivery_locations_user_id"`
	Label     string    `gorm:"column:label;not null"`
	Address   string    `gorm:"column:address;not null"`
	Lat       *float64  `gorm:"column:lat"`
	Lng       *float64  `gorm:"column:lng"`
	IsDefault bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
