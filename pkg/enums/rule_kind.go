package enums

import "fmt"

// RuleKind selects how a price row resolves a base price.
type RuleKind string

const (
	RuleKindTiers   RuleKind = "tiers"
	RuleKindPerUnit RuleKind = "per_unit"
	RuleKindFixed   RuleKind = "fixed"
)

var validRuleKinds = []RuleKind{
	RuleKindTiers,
	RuleKindPerUnit,
	RuleKindFixed,
}

// String implements fmt.Stringer.
func (r RuleKind) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RuleKind.
func (r RuleKind) IsValid() bool {
	for _, candidate := range validRuleKinds {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRuleKind converts raw input into a RuleKind.
func ParseRuleKind(value string) (RuleKind, error) {
	for _, candidate := range validRuleKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule kind %q", value)
}
