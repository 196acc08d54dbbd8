package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemChoice struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderItemID  uuid.UUID       `gorm:"column:order_item_id;type:uuid;not null"`
	OptionID     *uuid.UUID      `gorm:"column:option_id;type:uuid"`
	GroupNameEn  string          `gorm:"column:group_name_en;not null"`
	GroupNameAr  string          `gorm:"column:group_name_ar;not null"`
	OptionNameEn string          `gorm:"column:option_name_en;not null"`
	OptionNameAr string          `gorm:"column:option_name_ar;not null"`
	ExtraPrice   decimal.Decimal `gorm:"column:extra_price;type:numeric(10,2);not null;default:0"`
}
