package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// AttributeMap stores an attribute-name to attribute-value selection as JSONB.
// It backs both price row attrs and order item selections.
type AttributeMap map[string]string

// Value serializes the map to JSON.
func (a AttributeMap) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

// Scan decodes JSONB into the map.
func (a *AttributeMap) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded AttributeMap
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*a = decoded
	return nil
}

// SortedKeys returns the attribute names in a stable order.
func (a AttributeMap) SortedKeys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both maps hold the same pairs.
func (a AttributeMap) Equal(other AttributeMap) bool {
	if len(a) != len(other) {
		return false
	}
	for k, v := range a {
		if other[k] != v {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy safe to mutate.
func (a AttributeMap) Clone() AttributeMap {
	if a == nil {
		return nil
	}
	out := make(AttributeMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
