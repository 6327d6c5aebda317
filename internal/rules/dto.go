package rules

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
)

// RowDTO represents a price row returned to admin clients.
type RowDTO struct {
	ID        uuid.UUID         `json:"id"`
	ServiceID uuid.UUID         `json:"service_id"`
	Attrs     map[string]string `json:"attrs"`
	RuleKind  string            `json:"rule_kind"`
	Unit      *decimal.Decimal  `json:"unit,omitempty"`
	Fixed     *decimal.Decimal  `json:"fixed,omitempty"`
	Setup     *decimal.Decimal  `json:"setup,omitempty"`
	IsActive  bool              `json:"is_active"`
	Tiers     []TierDTO         `json:"tiers,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TierDTO represents one quantity breakpoint of a tiers row.
type TierDTO struct {
	ID   uuid.UUID       `json:"id"`
	Qty  int             `json:"qty"`
	Unit decimal.Decimal `json:"unit"`
}

// ModifierDTO represents a priced attribute value.
type ModifierDTO struct {
	ID        uuid.UUID       `json:"id"`
	ServiceID uuid.UUID       `json:"service_id"`
	AttrName  string          `json:"attr_name"`
	AttrValue string          `json:"attr_value"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	PerOrder  bool            `json:"per_order"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewRowDTO builds a DTO from the persisted row with its tiers.
func NewRowDTO(row *models.PriceRow) *RowDTO {
	dto := &RowDTO{
		ID:        row.ID,
		ServiceID: row.ServiceID,
		Attrs:     row.Attrs.Clone(),
		RuleKind:  row.RuleKind.String(),
		Unit:      row.Unit,
		Fixed:     row.Fixed,
		Setup:     row.Setup,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Tiers) > 0 {
		dto.Tiers = make([]TierDTO, len(row.Tiers))
		for i, tier := range row.Tiers {
			dto.Tiers[i] = TierDTO{ID: tier.ID, Qty: tier.Qty, Unit: tier.Unit}
		}
	}
	return dto
}

// NewModifierDTO builds a DTO from the persisted modifier.
func NewModifierDTO(mod *models.AttributeModifier) *ModifierDTO {
	return &ModifierDTO{
		ID:        mod.ID,
		ServiceID: mod.ServiceID,
		AttrName:  mod.AttrName,
		AttrValue: mod.AttrValue,
		Kind:      mod.Kind.String(),
		Amount:    mod.Amount,
		PerOrder:  mod.PerOrder,
		IsActive:  mod.IsActive,
		CreatedAt: mod.CreatedAt,
		UpdatedAt: mod.UpdatedAt,
	}
}
