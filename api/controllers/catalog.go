package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pixelprint/pixelprint-backend/api/responses"
	"github.com/pixelprint/pixelprint-backend/api/validators"
	catalogsvc "github.com/pixelprint/pixelprint-backend/internal/catalog"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
)

// CatalogList serves the public service catalog.
func CatalogList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		calculatorOnly, err := validators.ParseQueryBool(r, "calculator_only")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := catalogsvc.ServiceFilters{
			Category:       validators.QueryStringPtr(r, "category"),
			CalculatorOnly: calculatorOnly,
		}
		if q := validators.QueryStringPtr(r, "q"); q != nil {
			filters.Query = *q
		}

		services, err := svc.ListServices(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, services)
	}
}

// AdminCatalogList includes inactive services for back-office screens.
func AdminCatalogList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filters := catalogsvc.ServiceFilters{
			Category:        validators.QueryStringPtr(r, "category"),
			IncludeInactive: true,
		}
		if q := validators.QueryStringPtr(r, "q"); q != nil {
			filters.Query = *q
		}

		services, err := svc.ListServices(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, services)
	}
}

// CatalogDetail serves one service by slug.
func CatalogDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		service, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "serviceSlug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, service)
	}
}

type createServiceRequest struct {
	Name                string  `json:"name" validate:"required"`
	Category            string  `json:"category" validate:"required"`
	Description         *string `json:"description,omitempty"`
	CalculatorAvailable bool    `json:"calculator_available"`
	Position            int     `json:"position" validate:"omitempty,min=0"`
	IsActive            *bool   `json:"is_active,omitempty"`
}

type updateServiceRequest struct {
	Name                *string `json:"name,omitempty"`
	Category            *string `json:"category,omitempty"`
	Description         *string `json:"description,omitempty"`
	CalculatorAvailable *bool   `json:"calculator_available,omitempty"`
	Position            *int    `json:"position,omitempty" validate:"omitempty,min=0"`
	IsActive            *bool   `json:"is_active,omitempty"`
}

// AdminCatalogCreate creates a service.
func AdminCatalogCreate(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createServiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		service, err := svc.CreateService(r.Context(), catalogsvc.CreateServiceInput{
			Name:                payload.Name,
			Category:            payload.Category,
			Description:         payload.Description,
			CalculatorAvailable: payload.CalculatorAvailable,
			Position:            payload.Position,
			IsActive:            payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, service)
	}
}

// AdminCatalogUpdate mutates a service.
func AdminCatalogUpdate(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "serviceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateServiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		service, err := svc.UpdateService(r.Context(), id, catalogsvc.UpdateServiceInput{
			Name:                payload.Name,
			Category:            payload.Category,
			Description:         payload.Description,
			CalculatorAvailable: payload.CalculatorAvailable,
			Position:            payload.Position,
			IsActive:            payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, service)
	}
}

// AdminCatalogDelete removes a service, or deactivates it when order history
// still references it.
func AdminCatalogDelete(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "serviceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.DeleteService(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
