package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceTier is a quantity breakpoint with a per-unit price, owned by a PriceRow
// of kind tiers. Qty is unique within the row.
type PriceTier struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PriceRowID uuid.UUID       `gorm:"column:price_row_id;type:uuid;not null;uniqueIndex:idx_price_tiers_row_qty"`
	Qty        int             `gorm:"column:qty;not null;uniqueIndex:idx_price_tiers_row_qty"`
	Unit       decimal.Decimal `gorm:"column:unit;type:numeric(12,4);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
