package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/pkg/enums"
)

// baseResult is the unrounded outcome of evaluating a row before modifiers.
type baseResult struct {
	Net      decimal.Decimal
	Unit     decimal.Decimal
	Setup    decimal.Decimal
	TierQty  *int
	RowID    string
	RuleKind enums.RuleKind
}

// evaluateBase computes the net price of a row at the requested quantity.
// The setup fee is additive for every rule kind. A fixed rule ignores the
// quantity for net and only derives a display unit price from it.
func evaluateBase(row *Row, qty int) (baseResult, error) {
	if qty <= 0 {
		return baseResult{}, &InvalidRuleError{RowID: row.ID, Reason: fmt.Sprintf("quantity must be positive, got %d", qty)}
	}

	setup := decimal.Zero
	if row.Setup != nil {
		setup = *row.Setup
	}

	qtyDec := decimal.NewFromInt(int64(qty))
	result := baseResult{Setup: setup, RowID: row.ID.String(), RuleKind: row.Kind}

	switch row.Kind {
	case enums.RuleKindTiers:
		if len(row.Tiers) == 0 {
			return baseResult{}, &InvalidRuleError{RowID: row.ID, Reason: "tiers rule has no tiers"}
		}
		tier := resolveTier(row.Tiers, qty)
		result.Unit = tier.Unit
		result.Net = tier.Unit.Mul(qtyDec).Add(setup)
		tierQty := tier.Qty
		result.TierQty = &tierQty

	case enums.RuleKindPerUnit:
		if row.Unit == nil {
			return baseResult{}, &InvalidRuleError{RowID: row.ID, Reason: "per-unit rule has no unit price"}
		}
		result.Unit = *row.Unit
		result.Net = row.Unit.Mul(qtyDec).Add(setup)

	case enums.RuleKindFixed:
		if row.Fixed == nil {
			return baseResult{}, &InvalidRuleError{RowID: row.ID, Reason: "fixed rule has no fixed price"}
		}
		// Derived unit price is display-only; qty never scales a fixed rule.
		result.Unit = row.Fixed.Div(qtyDec)
		result.Net = row.Fixed.Add(setup)

	default:
		return baseResult{}, &InvalidRuleError{RowID: row.ID, Reason: fmt.Sprintf("unknown rule kind %q", row.Kind)}
	}

	return result, nil
}
