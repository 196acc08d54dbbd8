package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/karimfahmy/sofra-backend/api/responses"
	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	pkgerrors "github.com/karimfahmy/sofra-backend/pkg/errors"
	"github.com/karimfahmy/sofra-backend/pkg/logger"
)

type locationLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.DeliveryLocation, error)
}

type locationResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Address   string    `json:"address"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	IsDefault bool      `json:"isDefault"`
}

// DeliveryLocationList returns the caller's saved addresses, default first.
func DeliveryLocationList(repo locationLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location repository unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		locations, err := repo.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations"))
			return
		}

		out := make([]locationResponse, 0, len(locations))
		for _, location := range locations {
			out = append(out, locationResponse{
				ID:        location.ID,
				Label:     location.Label,
				Address:   location.Address,
				Lat:       location.Lat,
				Lng:       location.Lng,
				IsDefault: location.IsDefault,
			})
		}

		responses.WriteSuccess(w, out)
	}
}
