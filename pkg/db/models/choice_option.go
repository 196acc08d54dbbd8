package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ChoiceOption struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID     uuid.UUID       `gorm:"column:group_id;type:uuid;not null"`
	NameEn      string          `gorm:"column:name_en;not null"`
	NameAr      string          `gorm:"column:name_ar;not null"`
	ExtraPrice  decimal.Decimal `gorm:"column:extra_price;type:numeric(10,2);not null;default:0"`
	IsAvailable bool            `gorm:"column:is_available;not null;default:true"`
	SortOrder   int             `gorm:"column:sort_order;not null;default:0"`
}
