package models

import (
	"github.com/google/uuid"
)

// ChoiceGroup is a customization group on a menu item, e.g. "Size" or
// "Extras". MinSelect/MaxSelect bound how many options a line may pick.
type ChoiceGroup struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MenuItemID uuid.UUID      `gorm:"column:menu_item_id;type:uuid;not null"`
	NameEn     string         `gorm:"column:name_en;not null"`
	NameAr     string         `gorm:"column:name_ar;not null"`
	MinSelect  int            `gorm:"column:min_select;not null;default:0"`
	MaxSelect  int            `gorm:"column:max_select;not null;default:1"`
	SortOrder  int            `gorm:"column:sort_order;not null;default:0"`
	Options    []ChoiceOption `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}
