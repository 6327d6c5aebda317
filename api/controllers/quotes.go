package controllers

import (
	"net/http"

	"github.com/pixelprint/pixelprint-backend/api/responses"
	"github.com/pixelprint/pixelprint-backend/api/validators"
	quotesvc "github.com/pixelprint/pixelprint-backend/internal/quotes"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
)

type quoteRequest struct {
	ServiceSlug string            `json:"service_slug" validate:"required"`
	Selection   map[string]string `json:"selection"`
	Quantity    int               `json:"quantity" validate:"required,min=1"`
}

// QuoteResolve prices a selection against the live rule set.
func QuoteResolve(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Resolve(r.Context(), quotesvc.ResolveInput{
			ServiceSlug: payload.ServiceSlug,
			Selection:   payload.Selection,
			Quantity:    payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
