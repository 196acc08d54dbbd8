package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is an immutable snapshot copied from a CartItem at
// materialization time. Later menu edits never touch these rows.
type OrderItem struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID         `gorm:"column:order_id;type:uuid;not null"`
	MenuItemID   *uuid.UUID        `gorm:"column:menu_item_id;type:uuid"`
	NameEn       string            `gorm:"column:name_en;not null"`
	NameAr       string            `gorm:"column:name_ar;not null"`
	BasePrice    decimal.Decimal   `gorm:"column:base_price;type:numeric(10,2);not null"`
	AddonsPrice  decimal.Decimal   `gorm:"column:addons_price;type:numeric(10,2);not null;default:0"`
	Quantity     int               `gorm:"column:quantity;not null"`
	Note         *string           `gorm:"column:note"`
	LineTotal    decimal.Decimal   `gorm:"column:line_total;type:numeric(10,2);not null"`
	DisplayOrder int               `gorm:"column:display_order;not null;default:0"`
	Choices      []OrderItemChoice `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
}
