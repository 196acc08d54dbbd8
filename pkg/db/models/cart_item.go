package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one cart line per distinct item configuration. Name and
// prices are snapshots captured at add time; ContentHash collapses
// identical configurations into one line with a higher quantity.
type CartItem struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID      uuid.UUID        `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_id_content_hash"`
	MenuItemID  uuid.UUID        `gorm:"column:menu_item_id;type:uuid;not null"`
	NameEn      string           `gorm:"column:name_en;not null"`
	NameAr      string           `gorm:"column:name_ar;not null"`
	BasePrice   decimal.Decimal  `gorm:"column:base_price;type:numeric(10,2);not null"`
	AddonsPrice decimal.Decimal  `gorm:"column:addons_price;type:numeric(10,2);not null;default:0"`
	Quantity    int              `gorm:"column:quantity;not null"`
	Note        *string          `gorm:"column:note"`
	LineTotal   decimal.Decimal  `gorm:"column:line_total;type:numeric(10,2);not null"`
	ContentHash string           `gorm:"column:content_hash;not null;uniqueIndex:ux_cart_items_cart_id_content_hash"`
	Choices     []CartItemChoice `gorm:"foreignKey:CartItemID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// UnitPrice is the stored per-unit price (base plus add-ons); line totals
// are always recomputed from it, never from the live menu price.
func (i CartItem) UnitPrice() decimal.Decimal {
	return i.BasePrice.Add(i.AddonsPrice)
}
