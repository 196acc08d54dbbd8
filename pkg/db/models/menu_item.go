package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	NameEn        string          `gorm:"column:name_en;not null"`
	NameAr        string          `gorm:"column:name_ar;not null"`
	DescriptionEn *string         `gorm:"column:description_en"`
	DescriptionAr *string         `gorm:"column:description_ar"`
	BasePrice     decimal.Decimal `gorm:"column:base_price;type:numeric(10,2);not null"`
	ImageURL      *string         `gorm:"column:image_url"`
	Tags          pq.StringArray  `gorm:"column:tags;type:text[]"`
	IsAvailable   bool            `gorm:"column:is_available;not null;default:true"`
	AllowsNotes   bool            `gorm:"column:allows_notes;not null;default:true"`
	SortOrder     int             `gorm:"column:sort_order;not null;default:0"`
	ChoiceGroups  []ChoiceGroup   `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
