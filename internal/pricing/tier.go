package pricing

// resolveTier picks the tier with the greatest break quantity at or below the
// requested quantity. Quantities below the first break clamp to the smallest
// tier, so the lookup is total for any non-empty tier list.
func resolveTier(tiers []Tier, qty int) Tier {
	var selected *Tier
	var smallest *Tier

	for i := range tiers {
		tier := &tiers[i]
		if smallest == nil || tier.Qty < smallest.Qty {
			smallest = tier
		}
		if tier.Qty <= qty {
			if selected == nil || tier.Qty > selected.Qty {
				selected = tier
			}
		}
	}

	if selected == nil {
		selected = smallest
	}
	return *selected
}
