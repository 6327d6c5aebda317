package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/db"
	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/types"
)

// Service exposes admin pricing rule management operations.
type Service interface {
	ListRows(ctx context.Context, serviceSlug string, includeInactive bool) ([]RowDTO, error)
	CreateRow(ctx context.Context, serviceSlug string, input CreateRowInput) (*RowDTO, error)
	UpdateRow(ctx context.Context, rowID uuid.UUID, input UpdateRowInput) (*RowDTO, error)
	DeleteRow(ctx context.Context, rowID uuid.UUID) error
	PutTiers(ctx context.Context, rowID uuid.UUID, input PutTiersInput) (*RowDTO, error)
	ListModifiers(ctx context.Context, serviceSlug string, includeInactive bool) ([]ModifierDTO, error)
	CreateModifier(ctx context.Context, serviceSlug string, input CreateModifierInput) (*ModifierDTO, error)
	UpdateModifier(ctx context.Context, modifierID uuid.UUID, input UpdateModifierInput) (*ModifierDTO, error)
	DeleteModifier(ctx context.Context, modifierID uuid.UUID) error
}

// CreateRowInput holds the validated payload to create a price row.
type CreateRowInput struct {
	Attrs    map[string]string
	RuleKind enums.RuleKind
	Unit     *decimal.Decimal
	Fixed    *decimal.Decimal
	Setup    *decimal.Decimal
	IsActive *bool
	Tiers    []TierInput
}

// TierInput defines one quantity breakpoint.
type TierInput struct {
	Qty  int
	Unit decimal.Decimal
}

// UpdateRowInput holds optional mutation values for a row. A nil Attrs map
// leaves the attribute combination unchanged.
type UpdateRowInput struct {
	Attrs    map[string]string
	RuleKind *enums.RuleKind
	Unit     *decimal.Decimal
	Fixed    *decimal.Decimal
	Setup    *decimal.Decimal
	IsActive *bool
}

// PutTiersInput replaces the full tier list of a row and optionally its setup fee.
type PutTiersInput struct {
	Tiers []TierInput
	Setup *decimal.Decimal
}

// CreateModifierInput holds the validated payload to create a modifier.
type CreateModifierInput struct {
	AttrName  string
	AttrValue string
	Kind      enums.ModifierKind
	Amount    decimal.Decimal
	PerOrder  bool
	IsActive  *bool
}

// UpdateModifierInput holds optional mutation values for a modifier.
type UpdateModifierInput struct {
	Kind     *enums.ModifierKind
	Amount   *decimal.Decimal
	PerOrder *bool
	IsActive *bool
}

type serviceResolver interface {
	FindBySlug(ctx context.Context, slug string) (*models.Service, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	catalog  serviceResolver
}

// NewService constructs a pricing rule service instance.
func NewService(repo *Repository, dbClient *db.Client, catalog serviceResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rules repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("service resolver required")
	}
	return &service{repo: repo, dbClient: dbClient, catalog: catalog}, nil
}

// ListRows returns the price rows of a service.
func (s *service) ListRows(ctx context.Context, serviceSlug string, includeInactive bool) ([]RowDTO, error) {
	svc, err := s.resolveService(ctx, serviceSlug)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListRowsByService(ctx, svc.ID, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list price rows")
	}

	dtos := make([]RowDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewRowDTO(&rows[i])
	}
	return dtos, nil
}

// CreateRow creates a price row after checking the service has no other
// active row with the same attribute combination.
func (s *service) CreateRow(ctx context.Context, serviceSlug string, input CreateRowInput) (*RowDTO, error) {
	svc, err := s.resolveService(ctx, serviceSlug)
	if err != nil {
		return nil, err
	}

	attrs, err := normalizeAttrs(input.Attrs)
	if err != nil {
		return nil, err
	}
	if err := validateRuleFields(input.RuleKind, input.Unit, input.Fixed); err != nil {
		return nil, err
	}
	if err := validateTiers(input.Tiers); err != nil {
		return nil, err
	}
	if err := validateMoney(input.Setup, "setup"); err != nil {
		return nil, err
	}

	if err := s.ensureNoDuplicateRow(ctx, svc.ID, attrs, uuid.Nil); err != nil {
		return nil, err
	}

	row := &models.PriceRow{
		ServiceID: svc.ID,
		Attrs:     attrs,
		RuleKind:  input.RuleKind,
		Unit:      input.Unit,
		Fixed:     input.Fixed,
		Setup:     input.Setup,
		IsActive:  boolOrDefault(input.IsActive, true),
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		created, err := txRepo.CreateRow(ctx, row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price row")
		}
		if len(input.Tiers) > 0 {
			tiers := buildTierModels(created.ID, input.Tiers)
			if err := txRepo.ReplaceTiers(ctx, created.ID, tiers); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price tiers")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create price row")
	}

	return s.loadRowDTO(ctx, row.ID)
}

// UpdateRow applies a partial update to a price row.
func (s *service) UpdateRow(ctx context.Context, rowID uuid.UUID, input UpdateRowInput) (*RowDTO, error) {
	row, err := s.findRow(ctx, rowID)
	if err != nil {
		return nil, err
	}

	if input.Attrs != nil {
		attrs, err := normalizeAttrs(input.Attrs)
		if err != nil {
			return nil, err
		}
		row.Attrs = attrs
	}
	if input.RuleKind != nil {
		row.RuleKind = *input.RuleKind
	}
	if input.Unit != nil {
		row.Unit = input.Unit
	}
	if input.Fixed != nil {
		row.Fixed = input.Fixed
	}
	if input.Setup != nil {
		if err := validateMoney(input.Setup, "setup"); err != nil {
			return nil, err
		}
		row.Setup = input.Setup
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := validateRuleFields(row.RuleKind, row.Unit, row.Fixed); err != nil {
		return nil, err
	}

	if row.IsActive {
		if err := s.ensureNoDuplicateRow(ctx, row.ServiceID, row.Attrs, row.ID); err != nil {
			return nil, err
		}
	}

	if _, err := s.repo.UpdateRow(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update price row")
	}
	return s.loadRowDTO(ctx, row.ID)
}

// DeleteRow removes a row and its tiers.
func (s *service) DeleteRow(ctx context.Context, rowID uuid.UUID) error {
	if _, err := s.findRow(ctx, rowID); err != nil {
		return err
	}
	if err := s.repo.DeleteRow(ctx, rowID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete price row")
	}
	return nil
}

// PutTiers atomically replaces the tier list of a tiers row.
func (s *service) PutTiers(ctx context.Context, rowID uuid.UUID, input PutTiersInput) (*RowDTO, error) {
	row, err := s.findRow(ctx, rowID)
	if err != nil {
		return nil, err
	}
	if row.RuleKind != enums.RuleKindTiers {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("row %s has rule kind %s, not %s", rowID, row.RuleKind, enums.RuleKindTiers))
	}
	if len(input.Tiers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one tier is required")
	}
	if err := validateTiers(input.Tiers); err != nil {
		return nil, err
	}
	if input.Setup != nil {
		if err := validateMoney(input.Setup, "setup"); err != nil {
			return nil, err
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		tiers := buildTierModels(row.ID, input.Tiers)
		if err := txRepo.ReplaceTiers(ctx, row.ID, tiers); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace price tiers")
		}
		if input.Setup != nil {
			row.Setup = input.Setup
			if _, err := txRepo.UpdateRow(ctx, row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update setup fee")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace price tiers")
	}

	return s.loadRowDTO(ctx, row.ID)
}

// ListModifiers returns the attribute modifiers of a service.
func (s *service) ListModifiers(ctx context.Context, serviceSlug string, includeInactive bool) ([]ModifierDTO, error) {
	svc, err := s.resolveService(ctx, serviceSlug)
	if err != nil {
		return nil, err
	}

	mods, err := s.repo.ListModifiersByService(ctx, svc.ID, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list modifiers")
	}

	dtos := make([]ModifierDTO, len(mods))
	for i := range mods {
		dtos[i] = *NewModifierDTO(&mods[i])
	}
	return dtos, nil
}

// CreateModifier creates a modifier for one attribute value of a service.
func (s *service) CreateModifier(ctx context.Context, serviceSlug string, input CreateModifierInput) (*ModifierDTO, error) {
	svc, err := s.resolveService(ctx, serviceSlug)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.AttrName)
	value := strings.TrimSpace(input.AttrValue)
	if name == "" || value == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "attr_name and attr_value are required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown modifier kind %q", input.Kind))
	}
	if input.Kind != enums.ModifierKindPercent {
		if err := validateMoney(&input.Amount, "amount"); err != nil {
			return nil, err
		}
	}

	mod := &models.AttributeModifier{
		ServiceID: svc.ID,
		AttrName:  name,
		AttrValue: value,
		Kind:      input.Kind,
		Amount:    input.Amount,
		PerOrder:  input.PerOrder,
		IsActive:  boolOrDefault(input.IsActive, true),
	}

	created, err := s.repo.CreateModifier(ctx, mod)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("modifier for %s=%s already exists", name, value))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert modifier")
	}
	return NewModifierDTO(created), nil
}

// UpdateModifier applies a partial update to a modifier.
func (s *service) UpdateModifier(ctx context.Context, modifierID uuid.UUID, input UpdateModifierInput) (*ModifierDTO, error) {
	mod, err := s.repo.FindModifierByID(ctx, modifierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "modifier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load modifier")
	}

	if input.Kind != nil {
		if !input.Kind.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown modifier kind %q", *input.Kind))
		}
		mod.Kind = *input.Kind
	}
	if input.Amount != nil {
		if mod.Kind != enums.ModifierKindPercent {
			if err := validateMoney(input.Amount, "amount"); err != nil {
				return nil, err
			}
		}
		mod.Amount = *input.Amount
	}
	if input.PerOrder != nil {
		mod.PerOrder = *input.PerOrder
	}
	if input.IsActive != nil {
		mod.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateModifier(ctx, mod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update modifier")
	}
	return NewModifierDTO(updated), nil
}

// DeleteModifier removes a modifier.
func (s *service) DeleteModifier(ctx context.Context, modifierID uuid.UUID) error {
	if _, err := s.repo.FindModifierByID(ctx, modifierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "modifier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load modifier")
	}
	if err := s.repo.DeleteModifier(ctx, modifierID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete modifier")
	}
	return nil
}

func (s *service) resolveService(ctx context.Context, slug string) (*models.Service, error) {
	svc, err := s.catalog.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load service")
	}
	return svc, nil
}

func (s *service) findRow(ctx context.Context, rowID uuid.UUID) (*models.PriceRow, error) {
	row, err := s.repo.FindRowByID(ctx, rowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price row not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load price row")
	}
	return row, nil
}

func (s *service) loadRowDTO(ctx context.Context, rowID uuid.UUID) (*RowDTO, error) {
	row, err := s.findRow(ctx, rowID)
	if err != nil {
		return nil, err
	}
	return NewRowDTO(row), nil
}

// ensureNoDuplicateRow enforces the rule store's read contract at write
// time: no two active rows of a service may share a main-attribute
// combination, or every quote for it would be ambiguous.
func (s *service) ensureNoDuplicateRow(ctx context.Context, serviceID uuid.UUID, attrs types.AttributeMap, excludeID uuid.UUID) error {
	rows, err := s.repo.ListRowsByService(ctx, serviceID, false)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list price rows")
	}
	for i := range rows {
		if rows[i].ID == excludeID {
			continue
		}
		if rows[i].Attrs.Equal(attrs) {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("an active price row already exists for this attribute combination (row %s)", rows[i].ID))
		}
	}
	return nil
}

func normalizeAttrs(attrs map[string]string) (types.AttributeMap, error) {
	if len(attrs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one attribute is required")
	}
	normalized := make(types.AttributeMap, len(attrs))
	for name, value := range attrs {
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "attribute names and values cannot be empty")
		}
		normalized[name] = value
	}
	return normalized, nil
}

func validateRuleFields(kind enums.RuleKind, unit, fixed *decimal.Decimal) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown rule kind %q", kind))
	}
	switch kind {
	case enums.RuleKindPerUnit:
		if unit == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "per_unit rule requires a unit price")
		}
		return validateMoney(unit, "unit")
	case enums.RuleKindFixed:
		if fixed == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "fixed rule requires a fixed price")
		}
		return validateMoney(fixed, "fixed")
	default:
		return nil
	}
}

func validateTiers(tiers []TierInput) error {
	seen := make(map[int]struct{}, len(tiers))
	for _, tier := range tiers {
		if tier.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier quantity must be positive, got %d", tier.Qty))
		}
		if tier.Unit.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier unit price cannot be negative at qty %d", tier.Qty))
		}
		if _, dup := seen[tier.Qty]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate tier quantity %d", tier.Qty))
		}
		seen[tier.Qty] = struct{}{}
	}
	return nil
}

func validateMoney(value *decimal.Decimal, field string) error {
	if value != nil && value.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s cannot be negative", field))
	}
	return nil
}

func buildTierModels(rowID uuid.UUID, tiers []TierInput) []models.PriceTier {
	built := make([]models.PriceTier, len(tiers))
	for i, tier := range tiers {
		built[i] = models.PriceTier{PriceRowID: rowID, Qty: tier.Qty, Unit: tier.Unit}
	}
	return built
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
