package types

import "github.com/google/uuid"

// DeliverySelection is the customer's choice of delivery target: either a
// preset location reference or a free-text custom address with optional
// coordinates. Exactly one mode must be populated.
type DeliverySelection struct {
	LocationID *uuid.UUID `json:"locationId,omitempty"`

	CustomAddress *string  `json:"customAddress,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
}

// IsPreset reports whether the selection references a preset location.
func (s DeliverySelection) IsPreset() bool {
	return s.LocationID != nil && *s.LocationID != uuid.Nil
}

// IsCustom reports whether the selection carries a custom address.
func (s DeliverySelection) IsCustom() bool {
	return s.CustomAddress != nil && *s.CustomAddress != ""
}
