package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karimfahmy/sofra-backend/pkg/enums"
)

// Cart is the per-user staging area for an order. At most one active cart
// exists per user (partial unique index); submission flips the status and
// clears the line items.
type Cart struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	Status         enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`
	Subtotal       decimal.Decimal  `gorm:"column:subtotal;type:numeric(10,2);not null;default:0"`
	LastActivityAt time.Time        `gorm:"column:last_activity_at;not null"`
	Items          []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
