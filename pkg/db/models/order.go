package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karimfahmy/sofra-backend/pkg/enums"
	"github.com/karimfahmy/sofra-backend/pkg/types"
)

// Order is the materialized commitment derived from one cart snapshot.
// The (order_date, daily_number) pair is globally unique; the display id
// is derived from it and never changes once assigned.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	OrderDate   types.Date        `gorm:"column:order_date;type:date;not null;uniqueIndex:ux_orders_order_date_daily_number"`
	DailyNumber int               `gorm:"column:daily_number;not null;uniqueIndex:ux_orders_order_date_daily_number"`
	DisplayID   string            `gorm:"column:display_id;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'processing'"`
	ItemCount   int               `gorm:"column:item_count;not null"`
	Subtotal    decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Discount    decimal.Decimal   `gorm:"column:discount;type:numeric(10,2);not null;default:0"`
	Total       decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`

	CustomerName  string `gorm:"column:customer_name;not null"`
	CustomerPhone string `gorm:"column:customer_phone;not null"`

	// Delivery snapshot: either a preset location reference or a custom
	// address with optional coordinates; the resolved label is denormalized.
	LocationID    *uuid.UUID `gorm:"column:location_id;type:uuid"`
	CustomAddress *string    `gorm:"column:custom_address"`
	Lat           *float64   `gorm:"column:lat"`
	Lng           *float64   `gorm:"column:lng"`
	DeliveryLabel string     `gorm:"column:delivery_label;not null"`

	IsClosed  bool        `gorm:"column:is_closed;not null;default:false"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
