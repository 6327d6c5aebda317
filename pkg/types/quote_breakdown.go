package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// QuoteLine is one itemized entry in a quote breakdown.
type QuoteLine struct {
	Name   string          `json:"name"`
	Detail string          `json:"detail,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// QuoteBreakdown is the itemized quote snapshot persisted on an order item as JSONB.
type QuoteBreakdown struct {
	Base      QuoteLine       `json:"base"`
	Modifiers []QuoteLine     `json:"modifiers"`
	Net       decimal.Decimal `json:"net"`
	VAT       decimal.Decimal `json:"vat"`
	Gross     decimal.Decimal `json:"gross"`
	Unit      decimal.Decimal `json:"unit"`
}

// Value serializes the breakdown to JSON.
func (q QuoteBreakdown) Value() (driver.Value, error) {
	return json.Marshal(q)
}

// Scan decodes JSONB into the breakdown.
func (q *QuoteBreakdown) Scan(value interface{}) error {
	if value == nil {
		*q = QuoteBreakdown{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, q)
}
