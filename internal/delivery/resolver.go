package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	pkgerrors "github.com/karimfahmy/sofra-backend/pkg/errors"
	"github.com/karimfahmy/sofra-backend/pkg/types"
)

type locationLoader interface {
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.DeliveryLocation, error)
}

// Resolver turns a delivery selection into the human-readable label
// snapshotted onto the order.
type Resolver struct {
	locations locationLoader
}

// NewResolver builds a resolver over the provided location store.
func NewResolver(locations locationLoader) (*Resolver, error) {
	if locations == nil {
		return nil, fmt.Errorf("location loader required")
	}
	return &Resolver{locations: locations}, nil
}

// Resolve validates the selection and returns its display label. Preset
// selections must reference a location owned by the caller; custom
// selections must carry a non-empty address.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, sel types.DeliverySelection) (string, error) {
	switch {
	case sel.IsPreset():
		location, err := r.locations.GetByIDAndUser(ctx, *sel.LocationID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", pkgerrors.New(pkgerrors.CodeNotFound, "delivery location not found")
			}
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery location")
		}
		return fmt.Sprintf("%s - %s", location.Label, location.Address), nil

	case sel.IsCustom():
		address := strings.TrimSpace(*sel.CustomAddress)
		if address == "" {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "custom address cannot be empty")
		}
		return address, nil

	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "a delivery location or custom address is required")
	}
}

// LocationRepository is the gorm-backed location store.
type LocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository constructs a location repository.
func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// GetByIDAndUser loads a preset location restricted to its owner.
func (r *LocationRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.DeliveryLocation, error) {
	var location models.DeliveryLocation
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// ListByUser returns the user's saved locations, default first.
func (r *LocationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.DeliveryLocation, error) {
	var locations []models.DeliveryLocation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}
