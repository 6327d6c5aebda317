package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/internal/pricing"
	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
	"github.com/pixelprint/pixelprint-backend/pkg/metrics"
)

// ResolveInput is one quote request for a service.
type ResolveInput struct {
	ServiceSlug string
	Selection   map[string]string
	Quantity    int
}

// Service resolves instant quotes against the live rule store.
type Service interface {
	Resolve(ctx context.Context, input ResolveInput) (*QuoteDTO, error)
}

type serviceCatalog interface {
	FindBySlug(ctx context.Context, slug string) (*models.Service, error)
}

type ruleStore interface {
	ListRowsByService(ctx context.Context, serviceID uuid.UUID, includeInactive bool) ([]models.PriceRow, error)
	ListModifiersByService(ctx context.Context, serviceID uuid.UUID, includeInactive bool) ([]models.AttributeModifier, error)
}

type service struct {
	catalog   serviceCatalog
	rules     ruleStore
	assembler *pricing.Assembler
	log       *logger.Logger
	metrics   *metrics.QuoteMetrics
}

// NewService constructs a quote service. Metrics may be nil in tests.
func NewService(catalog serviceCatalog, rules ruleStore, assembler *pricing.Assembler, log *logger.Logger, quoteMetrics *metrics.QuoteMetrics) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("service catalog required")
	}
	if rules == nil {
		return nil, fmt.Errorf("rule store required")
	}
	if assembler == nil {
		return nil, fmt.Errorf("quote assembler required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		catalog:   catalog,
		rules:     rules,
		assembler: assembler,
		log:       log,
		metrics:   quoteMetrics,
	}, nil
}

// Resolve prices one configured selection. Misconfigured or missing rules
// surface as PRICING_UNAVAILABLE so the storefront can fall back to a
// manual enquiry flow.
func (s *service) Resolve(ctx context.Context, input ResolveInput) (*QuoteDTO, error) {
	slug := strings.TrimSpace(input.ServiceSlug)
	ctx = s.log.WithServiceSlug(ctx, slug)

	if input.Quantity <= 0 {
		s.metrics.IncFailed(slug, "validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	svc, err := s.catalog.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncFailed(slug, "service_not_found")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		s.metrics.IncFailed(slug, "dependency")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load service")
	}
	if !svc.IsActive {
		s.metrics.IncFailed(slug, "service_not_found")
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	if !svc.CalculatorAvailable {
		s.metrics.IncFailed(slug, "calculator_unavailable")
		return nil, pkgerrors.New(pkgerrors.CodeUnpriceable, "online pricing is not available for this service")
	}

	started := time.Now()
	quote, err := s.resolveAgainstRules(ctx, svc, input)
	s.metrics.ObserveDuration(slug, time.Since(started))
	if err != nil {
		return nil, err
	}

	if len(quote.Warnings) > 0 {
		warnCtx := s.log.WithFields(ctx, map[string]any{
			"warnings": quote.Warnings,
			"quantity": input.Quantity,
		})
		s.log.Warn(warnCtx, "quote resolved with warnings")
	}
	s.metrics.IncResolved(slug)

	return &QuoteDTO{
		ServiceID:   svc.ID,
		ServiceSlug: svc.Slug,
		ServiceName: svc.Name,
		Selection:   input.Selection,
		Quantity:    input.Quantity,
		Breakdown:   quote.Breakdown,
		Warnings:    quote.Warnings,
	}, nil
}

func (s *service) resolveAgainstRules(ctx context.Context, svc *models.Service, input ResolveInput) (*pricing.Quote, error) {
	rows, err := s.rules.ListRowsByService(ctx, svc.ID, false)
	if err != nil {
		s.metrics.IncFailed(svc.Slug, "dependency")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load price rows")
	}
	if len(rows) == 0 {
		s.metrics.IncFailed(svc.Slug, "no_rules")
		return nil, pkgerrors.New(pkgerrors.CodeUnpriceable, "no pricing rules configured for this service")
	}
	modifiers, err := s.rules.ListModifiersByService(ctx, svc.ID, false)
	if err != nil {
		s.metrics.IncFailed(svc.Slug, "dependency")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load modifiers")
	}

	quote, err := s.assembler.Assemble(toPricingRows(rows), toPricingModifiers(modifiers), input.Selection, input.Quantity)
	if err != nil {
		return nil, s.mapEngineError(ctx, svc.Slug, err)
	}
	return quote, nil
}

// mapEngineError translates typed engine errors into API error codes. A rule
// the customer cannot fix (ambiguous rows, broken configuration) is reported
// as PRICING_UNAVAILABLE; an incomplete selection is the caller's to fix.
func (s *service) mapEngineError(ctx context.Context, slug string, err error) error {
	var missing *pricing.MissingSelectionError
	if errors.As(err, &missing) {
		s.metrics.IncFailed(slug, "missing_selection")
		return pkgerrors.New(pkgerrors.CodeValidation, missing.Error())
	}

	var noMatch *pricing.NoMatchingRuleError
	if errors.As(err, &noMatch) {
		s.metrics.IncFailed(slug, "no_matching_rule")
		s.log.Warn(s.log.WithField(ctx, "matches", noMatch.Matches), "quote selection matched no usable price row")
		return pkgerrors.New(pkgerrors.CodeUnpriceable, "this combination cannot be priced online")
	}

	var invalid *pricing.InvalidRuleError
	if errors.As(err, &invalid) {
		s.metrics.IncFailed(slug, "invalid_rule")
		s.log.Error(ctx, "quote hit a misconfigured price row", invalid)
		return pkgerrors.New(pkgerrors.CodeUnpriceable, "this combination cannot be priced online")
	}

	s.metrics.IncFailed(slug, "internal")
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "quote resolution failed")
}

func toPricingRows(rows []models.PriceRow) []pricing.Row {
	out := make([]pricing.Row, len(rows))
	for i := range rows {
		row := rows[i]
		tiers := make([]pricing.Tier, len(row.Tiers))
		for j, tier := range row.Tiers {
			tiers[j] = pricing.Tier{Qty: tier.Qty, Unit: tier.Unit}
		}
		out[i] = pricing.Row{
			ID:    row.ID,
			Attrs: row.Attrs,
			Kind:  row.RuleKind,
			Unit:  row.Unit,
			Fixed: row.Fixed,
			Setup: row.Setup,
			Tiers: tiers,
		}
	}
	return out
}

func toPricingModifiers(mods []models.AttributeModifier) []pricing.Modifier {
	out := make([]pricing.Modifier, len(mods))
	for i, mod := range mods {
		out[i] = pricing.Modifier{
			AttrName:  mod.AttrName,
			AttrValue: mod.AttrValue,
			Kind:      mod.Kind,
			Amount:    mod.Amount,
			PerOrder:  mod.PerOrder,
		}
	}
	return out
}
