package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/api/responses"
	"github.com/pixelprint/pixelprint-backend/api/validators"
	rulesvc "github.com/pixelprint/pixelprint-backend/internal/rules"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
)

type tierRequest struct {
	Qty  int             `json:"qty" validate:"required,min=1"`
	Unit decimal.Decimal `json:"unit"`
}

type createRowRequest struct {
	Attrs    map[string]string `json:"attrs" validate:"required"`
	RuleKind string            `json:"rule_kind" validate:"required"`
	Unit     *decimal.Decimal  `json:"unit,omitempty"`
	Fixed    *decimal.Decimal  `json:"fixed,omitempty"`
	Setup    *decimal.Decimal  `json:"setup,omitempty"`
	IsActive *bool             `json:"is_active,omitempty"`
	Tiers    []tierRequest     `json:"tiers,omitempty" validate:"omitempty,dive"`
}

type updateRowRequest struct {
	Attrs    map[string]string `json:"attrs,omitempty"`
	RuleKind *string           `json:"rule_kind,omitempty"`
	Unit     *decimal.Decimal  `json:"unit,omitempty"`
	Fixed    *decimal.Decimal  `json:"fixed,omitempty"`
	Setup    *decimal.Decimal  `json:"setup,omitempty"`
	IsActive *bool             `json:"is_active,omitempty"`
}

type putTiersRequest struct {
	Tiers []tierRequest    `json:"tiers" validate:"required,min=1,dive"`
	Setup *decimal.Decimal `json:"setup,omitempty"`
}

type createModifierRequest struct {
	AttrName  string          `json:"attr_name" validate:"required"`
	AttrValue string          `json:"attr_value" validate:"required"`
	Kind      string          `json:"kind" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	PerOrder  bool            `json:"per_order"`
	IsActive  *bool           `json:"is_active,omitempty"`
}

type updateModifierRequest struct {
	Kind     *string          `json:"kind,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	PerOrder *bool            `json:"per_order,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

// AdminRowsList returns the price rows of a service, drafts included.
func AdminRowsList(svc rulesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		includeInactive, err := validators.ParseQueryBool(r, "include_inactive")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListRows(r.Context(), chi.URLParam(r, "serviceSlug"), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// AdminRowCreate creates a price row under a service.
func AdminRowCreate(svc rulesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload createRowRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseRuleKind(strings.TrimSpace(payload.RuleKind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rule kind"))
			return
		}

		row, err := svc.CreateRow(r.Context(), chi.URLParam(r, "serviceSlug"), rulesvc.CreateRowInput{
			Attrs:    payload.Attrs,
			RuleKind: kind,
			Unit:     payload.Unit,
			Fixed:    payload.Fixed,
			Setup:    payload.Setup,
			IsActive: payload.IsActive,
			Tiers:    toTierInputs(payload.Tiers),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// AdminRowUpdate mutates a price row.
func AdminRowUpdate(svc rulesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "rowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateRowRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := rulesvc.UpdateRowInput{
			Attrs:    payload.Attrs,
			Unit:     payload.Unit,
			Fixed:    payload.Fixed,
			Setup:    payload.Setup,
			IsActive: payload.IsActive,
		}
		if payload.RuleKind != nil {
			kind, err := enums.ParseRuleKind(strings.TrimSpace(*payload.RuleKind))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rule kind"))
				return
			}
			input.RuleKind = &kind
		}

		row, err := svc.UpdateRow(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

// AdminRowDelete removes a price row and its tiers.
func AdminRowDelete(svc rulesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "rowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteRow(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminRowPutTiers replaces the tier ladder of a row in one shot.
func AdminRowPutTiers(svc rulesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "rowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload putTiersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.PutTiers(r.Context(), id, rulesvc.PutTiersInput{
			Tiers: toTierInputs(payload.Tiers),
			Setup: payload.Setup,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

// AdminModifiersList returns the attribute modifiers of a service.
func AdminModifiersList(svc rulesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		includeInactive, err := validators.ParseQueryBool(r, "include_inactive")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modifiers, err := svc.ListModifiers(r.Context(), chi.URLParam(r, "serviceSlug"), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, modifiers)
	}
}

// AdminModifierCreate creates an attribute modifier under a service.
func AdminModifierCreate(svc rulesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload createModifierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseModifierKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid modifier kind"))
			return
		}

		modifier, err := svc.CreateModifier(r.Context(), chi.URLParam(r, "serviceSlug"), rulesvc.CreateModifierInput{
			AttrName:  payload.AttrName,
			AttrValue: payload.AttrValue,
			Kind:      kind,
			Amount:    payload.Amount,
			PerOrder:  payload.PerOrder,
			IsActive:  payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, modifier)
	}
}

// AdminModifierUpdate mutates an attribute modifier.
func AdminModifierUpdate(svc rulesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "modifierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateModifierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := rulesvc.UpdateModifierInput{
			Amount:   payload.Amount,
			PerOrder: payload.PerOrder,
			IsActive: payload.IsActive,
		}
		if payload.Kind != nil {
			kind, err := enums.ParseModifierKind(strings.TrimSpace(*payload.Kind))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid modifier kind"))
				return
			}
			input.Kind = &kind
		}

		modifier, err := svc.UpdateModifier(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, modifier)
	}
}

// AdminModifierDelete removes an attribute modifier.
func AdminModifierDelete(svc rulesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "modifierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteModifier(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func toTierInputs(tiers []tierRequest) []rulesvc.TierInput {
	if len(tiers) == 0 {
		return nil
	}
	out := make([]rulesvc.TierInput, len(tiers))
	for i, tier := range tiers {
		out[i] = rulesvc.TierInput{Qty: tier.Qty, Unit: tier.Unit}
	}
	return out
}
