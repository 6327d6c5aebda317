package pricing

import "strings"

// mainAttributeNames returns the union of attribute names used by the rows.
// Those names are the required selection axes for the service.
func mainAttributeNames(rows []Row) map[string]struct{} {
	names := map[string]struct{}{}
	for _, row := range rows {
		for name := range row.Attrs {
			names[name] = struct{}{}
		}
	}
	return names
}

// Match finds the single price row whose attrs agree with the selection on
// every main-attribute key. Modifier-only keys in the selection are ignored.
// Zero or multiple candidates return a NoMatchingRuleError.
func Match(rows []Row, selection map[string]string) (*Row, error) {
	for name := range mainAttributeNames(rows) {
		if strings.TrimSpace(selection[name]) == "" {
			return nil, &MissingSelectionError{Attribute: name}
		}
	}

	var matched *Row
	matches := 0
	for i := range rows {
		if rowMatches(rows[i], selection) {
			matches++
			matched = &rows[i]
		}
	}

	if matches != 1 {
		return nil, &NoMatchingRuleError{Selection: selection, Matches: matches}
	}
	return matched, nil
}

func rowMatches(row Row, selection map[string]string) bool {
	for name, want := range row.Attrs {
		if selection[name] != want {
			return false
		}
	}
	return true
}
