package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	"github.com/pixelprint/pixelprint-backend/pkg/types"
)

// PriceRow is one pricing rule for a service under a specific main-attribute
// combination. Exactly one of Tiers/Unit/Fixed is active per RuleKind.
type PriceRow struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ServiceID uuid.UUID          `gorm:"column:service_id;type:uuid;not null;index"`
	Attrs     types.AttributeMap `gorm:"column:attrs;type:jsonb;not null"`
	RuleKind  enums.RuleKind     `gorm:"column:rule_kind;not null"`
	Unit      *decimal.Decimal   `gorm:"column:unit;type:numeric(12,4)"`
	Fixed     *decimal.Decimal   `gorm:"column:fixed;type:numeric(12,2)"`
	Setup     *decimal.Decimal   `gorm:"column:setup;type:numeric(12,2)"`
	IsActive  bool               `gorm:"column:is_active;not null;default:true"`
	Tiers     []PriceTier        `gorm:"foreignKey:PriceRowID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
