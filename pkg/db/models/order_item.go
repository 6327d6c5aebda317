package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/pkg/types"
)

// OrderItem snapshots one configured line at checkout: service name, selected
// attributes, quantity, and the fully resolved quote breakdown.
type OrderItem struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	ServiceID     *uuid.UUID           `gorm:"column:service_id;type:uuid"`
	ServiceName   string               `gorm:"column:service_name;not null"`
	Selection     types.AttributeMap   `gorm:"column:selection;type:jsonb;not null"`
	Quantity      int                  `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal      `gorm:"column:unit_price;type:numeric(12,4);not null"`
	TotalPrice    decimal.Decimal      `gorm:"column:total_price;type:numeric(12,2);not null"`
	Breakdown     types.QuoteBreakdown `gorm:"column:breakdown;type:jsonb;not null"`
	ArtworkFileID *uuid.UUID           `gorm:"column:artwork_file_id;type:uuid"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
}
