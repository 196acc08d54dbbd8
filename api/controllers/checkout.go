package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/karimfahmy/sofra-backend/api/responses"
	"github.com/karimfahmy/sofra-backend/api/validators"
	checkoutsvc "github.com/karimfahmy/sofra-backend/internal/checkout"
	pkgerrors "github.com/karimfahmy/sofra-backend/pkg/errors"
	"github.com/karimfahmy/sofra-backend/pkg/logger"
	"github.com/karimfahmy/sofra-backend/pkg/types"
)

type checkoutRequest struct {
	LocationID    *uuid.UUID `json:"locationId"`
	CustomAddress *string    `json:"customAddress"`
	Lat           *float64   `json:"lat"`
	Lng           *float64   `json:"lng"`
}

// CheckoutSubmit turns the caller's active cart into an order.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), userID, types.DeliverySelection{
			LocationID:    payload.LocationID,
			CustomAddress: payload.CustomAddress,
			Lat:           payload.Lat,
			Lng:           payload.Lng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}
