package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/pkg/enums"
)

// AttributeModifier prices an optional attribute value for a service. It adjusts
// a quote without changing which price row applies.
type AttributeModifier struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ServiceID uuid.UUID          `gorm:"column:service_id;type:uuid;not null;uniqueIndex:idx_attribute_modifiers_axis"`
	AttrName  string             `gorm:"column:attr_name;not null;uniqueIndex:idx_attribute_modifiers_axis"`
	AttrValue string             `gorm:"column:attr_value;not null;uniqueIndex:idx_attribute_modifiers_axis"`
	Kind      enums.ModifierKind `gorm:"column:kind;not null"`
	Amount    decimal.Decimal    `gorm:"column:amount;type:numeric(12,4);not null"`
	PerOrder  bool               `gorm:"column:per_order;not null;default:false"`
	IsActive  bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
