package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MissingSelectionError reports a required main attribute absent from the
// selection. Recoverable; the caller should re-prompt.
type MissingSelectionError struct {
	Attribute string
}

func (e *MissingSelectionError) Error() string {
	return fmt.Sprintf("required attribute %q is missing from the selection", e.Attribute)
}

// NoMatchingRuleError reports that the selection matched zero price rows, or
// more than one. An ambiguous match is a data-integrity problem in the rule
// store and is never resolved by picking a row arbitrarily.
type NoMatchingRuleError struct {
	Selection map[string]string
	Matches   int
}

func (e *NoMatchingRuleError) Error() string {
	if e.Matches > 1 {
		return fmt.Sprintf("selection %s matches %d price rows", formatSelection(e.Selection), e.Matches)
	}
	return fmt.Sprintf("no price row matches selection %s", formatSelection(e.Selection))
}

// InvalidRuleError reports a malformed price row or an unusable quantity.
type InvalidRuleError struct {
	RowID  uuid.UUID
	Reason string
}

func (e *InvalidRuleError) Error() string {
	if e.RowID == uuid.Nil {
		return fmt.Sprintf("invalid pricing rule: %s", e.Reason)
	}
	return fmt.Sprintf("invalid pricing rule %s: %s", e.RowID, e.Reason)
}

func formatSelection(selection map[string]string) string {
	if len(selection) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(selection))
	for key := range selection {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", key, selection[key]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
