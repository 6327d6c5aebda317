package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	"github.com/pixelprint/pixelprint-backend/pkg/types"
)

// Assembler turns a row set, modifier set, and selection into a Quote.
// The VAT rate is injected once at construction so every call site shares
// the same rate.
type Assembler struct {
	vatRate decimal.Decimal
}

// NewAssembler constructs an assembler with the given VAT rate (e.g. 0.20).
func NewAssembler(vatRate decimal.Decimal) *Assembler {
	return &Assembler{vatRate: vatRate}
}

// Assemble resolves the quote for a selection and quantity against the
// service's rows and modifiers. Currency fields on the returned breakdown
// are rounded to two decimal places (unit price to four); all intermediate
// arithmetic stays unrounded.
func (a *Assembler) Assemble(rows []Row, modifiers []Modifier, selection map[string]string, qty int) (*Quote, error) {
	if qty <= 0 {
		return nil, &InvalidRuleError{Reason: fmt.Sprintf("quantity must be positive, got %d", qty)}
	}

	row, err := Match(rows, selection)
	if err != nil {
		return nil, err
	}

	base, err := evaluateBase(row, qty)
	if err != nil {
		return nil, err
	}

	applied, warnings := selectModifiers(rows, modifiers, selection)

	net, modifierLines, err := applyModifiers(base, qty, applied)
	if err != nil {
		return nil, err
	}

	netFinal := net.Round(2)
	vat := netFinal.Mul(a.vatRate).Round(2)
	gross := netFinal.Add(vat)
	unit := gross.Div(decimal.NewFromInt(int64(qty))).Round(4)

	return &Quote{
		Breakdown: types.QuoteBreakdown{
			Base: types.QuoteLine{
				Name:   "Base",
				Detail: baseDetail(base, qty),
				Amount: base.Net.Round(2),
			},
			Modifiers: modifierLines,
			Net:       netFinal,
			VAT:       vat,
			Gross:     gross,
			Unit:      unit,
		},
		Warnings: warnings,
	}, nil
}

// selectModifiers resolves the modifier-only selection keys to configured
// modifiers. A value of "None" contributes nothing and is skipped silently;
// an unconfigured key/value pair is ignored with a warning. Keys are walked
// in sorted order so repeated calls itemize identically.
func selectModifiers(rows []Row, modifiers []Modifier, selection map[string]string) ([]Modifier, []string) {
	mainNames := mainAttributeNames(rows)

	byAxis := make(map[string]Modifier, len(modifiers))
	for _, mod := range modifiers {
		byAxis[axisKey(mod.AttrName, mod.AttrValue)] = mod
	}

	keys := make([]string, 0, len(selection))
	for key := range selection {
		if _, isMain := mainNames[key]; !isMain {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	applied := make([]Modifier, 0, len(keys))
	var warnings []string
	for _, key := range keys {
		value := selection[key]
		if strings.EqualFold(strings.TrimSpace(value), "none") || strings.TrimSpace(value) == "" {
			continue
		}
		mod, ok := byAxis[axisKey(key, value)]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("no modifier configured for %s=%s", key, value))
			continue
		}
		applied = append(applied, mod)
	}

	return applied, warnings
}

func axisKey(name, value string) string {
	return name + "\x00" + value
}

func baseDetail(base baseResult, qty int) string {
	switch base.RuleKind {
	case enums.RuleKindTiers:
		return fmt.Sprintf("tier %d+ @ %s/unit x %d", *base.TierQty, base.Unit, qty)
	case enums.RuleKindPerUnit:
		return fmt.Sprintf("%s/unit x %d", base.Unit, qty)
	case enums.RuleKindFixed:
		return "fixed price"
	default:
		return ""
	}
}
