package enums

import "fmt"

// ModifierKind describes how an attribute modifier adjusts a quote.
type ModifierKind string

const (
	// ModifierKindAdd contributes a flat amount, per unit or per order.
	ModifierKindAdd ModifierKind = "add"
	// ModifierKindPercent contributes a percentage of the running subtotal.
	ModifierKindPercent ModifierKind = "percent"
	// ModifierKindAll replaces the unit price entirely.
	ModifierKindAll ModifierKind = "all"
)

var validModifierKinds = []ModifierKind{
	ModifierKindAdd,
	ModifierKindPercent,
	ModifierKindAll,
}

// String implements fmt.Stringer.
func (m ModifierKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ModifierKind.
func (m ModifierKind) IsValid() bool {
	for _, candidate := range validModifierKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseModifierKind converts raw input into a ModifierKind.
func ParseModifierKind(value string) (ModifierKind, error) {
	for _, candidate := range validModifierKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid modifier kind %q", value)
}
