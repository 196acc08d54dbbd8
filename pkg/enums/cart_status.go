package enums

import "fmt"

// CartStatus maps to the cart_status enum in Postgres.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusSubmitted CartStatus = "submitted"
)

var validCartStatuses = []CartStatus{
	CartStatusActive,
	CartStatusSubmitted,
}

// IsValid reports whether the value matches the canonical cart_status enum.
func (s CartStatus) IsValid() bool {
	for _, candidate := range validCartStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCartStatus converts raw input into CartStatus.
func ParseCartStatus(value string) (CartStatus, error) {
	for _, candidate := range validCartStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart status %q", value)
}
