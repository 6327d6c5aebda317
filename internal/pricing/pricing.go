// Package pricing resolves a price quote for a configured print service:
// it matches the selected main attributes to a price row, evaluates the
// row's rule (tiers, per-unit, or fixed), layers attribute modifiers on
// top, and applies VAT. The package is pure computation over rows the
// caller has already fetched.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	"github.com/pixelprint/pixelprint-backend/pkg/types"
)

// Tier is a quantity breakpoint with its per-unit price.
type Tier struct {
	Qty  int
	Unit decimal.Decimal
}

// Row is one pricing rule scoped to a main-attribute combination.
// Exactly one of Tiers/Unit/Fixed is meaningful, keyed by Kind.
type Row struct {
	ID    uuid.UUID
	Attrs map[string]string
	Kind  enums.RuleKind
	Unit  *decimal.Decimal
	Fixed *decimal.Decimal
	Setup *decimal.Decimal
	Tiers []Tier
}

// Modifier prices one optional attribute value.
type Modifier struct {
	AttrName  string
	AttrValue string
	Kind      enums.ModifierKind
	Amount    decimal.Decimal
	PerOrder  bool
}

// Quote is the fully resolved breakdown plus non-fatal warnings collected
// while assembling it (e.g. selection keys with no configured modifier).
type Quote struct {
	Breakdown types.QuoteBreakdown
	Warnings  []string
}
