package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	"github.com/pixelprint/pixelprint-backend/pkg/types"
)

var oneHundred = decimal.NewFromInt(100)

// applyModifiers layers the selected modifiers over the evaluated base in a
// fixed order: a replacement ("all") modifier first, then additive modifiers,
// then percentage modifiers compounding sequentially against the running
// total. The running total stays unrounded; only the itemized line amounts
// are rounded for display.
func applyModifiers(base baseResult, qty int, applied []Modifier) (decimal.Decimal, []types.QuoteLine, error) {
	net := base.Net
	lines := []types.QuoteLine{}
	qtyDec := decimal.NewFromInt(int64(qty))

	var replacement *Modifier
	for i := range applied {
		mod := &applied[i]
		if mod.Kind != enums.ModifierKindAll {
			continue
		}
		if replacement != nil {
			return decimal.Zero, nil, &InvalidRuleError{
				Reason: fmt.Sprintf("multiple replacement modifiers selected (%s=%s and %s=%s)",
					replacement.AttrName, replacement.AttrValue, mod.AttrName, mod.AttrValue),
			}
		}
		replacement = mod
	}

	if replacement != nil {
		// The replacement unit price rebuilds the net; the setup fee survives.
		replaced := replacement.Amount.Mul(qtyDec).Add(base.Setup)
		delta := replaced.Sub(net)
		lines = append(lines, types.QuoteLine{
			Name:   modifierName(*replacement),
			Detail: fmt.Sprintf("replaces unit price (%s/unit)", replacement.Amount),
			Amount: delta.Round(2),
		})
		net = replaced
	}

	for _, mod := range applied {
		if mod.Kind != enums.ModifierKindAdd {
			continue
		}
		delta := mod.Amount.Mul(qtyDec)
		detail := fmt.Sprintf("%s/unit x %d", mod.Amount, qty)
		if mod.PerOrder {
			delta = mod.Amount
			detail = fmt.Sprintf("%s per order", mod.Amount)
		}
		lines = append(lines, types.QuoteLine{
			Name:   modifierName(mod),
			Detail: detail,
			Amount: delta.Round(2),
		})
		net = net.Add(delta)
	}

	for _, mod := range applied {
		if mod.Kind != enums.ModifierKindPercent {
			continue
		}
		delta := net.Mul(mod.Amount).Div(oneHundred)
		lines = append(lines, types.QuoteLine{
			Name:   modifierName(mod),
			Detail: fmt.Sprintf("+%s%%", mod.Amount),
			Amount: delta.Round(2),
		})
		net = net.Add(delta)
	}

	return net, lines, nil
}

func modifierName(mod Modifier) string {
	return fmt.Sprintf("%s: %s", mod.AttrName, mod.AttrValue)
}
