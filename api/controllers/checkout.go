package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pixelprint/pixelprint-backend/api/responses"
	"github.com/pixelprint/pixelprint-backend/api/validators"
	checkoutsvc "github.com/pixelprint/pixelprint-backend/internal/checkout"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
)

type checkoutItemRequest struct {
	ServiceSlug   string            `json:"service_slug" validate:"required"`
	Selection     map[string]string `json:"selection"`
	Quantity      int               `json:"quantity" validate:"required,min=1"`
	ArtworkFileID *string           `json:"artwork_file_id,omitempty"`
}

type checkoutRequest struct {
	CustomerName  string                `json:"customer_name" validate:"required"`
	CustomerEmail string                `json:"customer_email" validate:"required,email"`
	CustomerPhone *string               `json:"customer_phone,omitempty"`
	Company       *string               `json:"company,omitempty"`
	Notes         *string               `json:"notes,omitempty"`
	Items         []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Checkout re-prices the cart server-side and persists the order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]checkoutsvc.ItemInput, len(payload.Items))
		for i, item := range payload.Items {
			input := checkoutsvc.ItemInput{
				ServiceSlug: item.ServiceSlug,
				Selection:   item.Selection,
				Quantity:    item.Quantity,
			}
			if item.ArtworkFileID != nil {
				fileID, err := uuid.Parse(*item.ArtworkFileID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid artwork file id"))
					return
				}
				input.ArtworkFileID = &fileID
			}
			items[i] = input
		}

		order, err := svc.PlaceOrder(r.Context(), checkoutsvc.PlaceOrderInput{
			CustomerName:  payload.CustomerName,
			CustomerEmail: payload.CustomerEmail,
			CustomerPhone: payload.CustomerPhone,
			Company:       payload.Company,
			Notes:         payload.Notes,
			Items:         items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
