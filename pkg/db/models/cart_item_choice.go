package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemChoice captures one selected option under a cart line. The extra
// price is a snapshot of what was charged at add time.
type CartItemChoice struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartItemID   uuid.UUID       `gorm:"column:cart_item_id;type:uuid;not null"`
	OptionID     *uuid.UUID      `gorm:"column:option_id;type:uuid"`
	GroupNameEn  string          `gorm:"column:group_name_en;not null"`
	GroupNameAr  string          `gorm:"column:group_name_ar;not null"`
	OptionNameEn string          `gorm:"column:option_name_en;not null"`
	OptionNameAr string          `gorm:"column:option_name_ar;not null"`
	ExtraPrice   decimal.Decimal `gorm:"column:extra_price;type:numeric(10,2);not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
