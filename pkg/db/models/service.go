package models

import (
	"time"

	"github.com/google/uuid"
)

// Service represents a sellable print product line.
type Service struct {
	ID                   uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug                 string     `gorm:"column:slug;not null;uniqueIndex"`
	Name                 string     `gorm:"column:name;not null"`
	Category             string     `gorm:"column:category;not null"`
	Description          *string    `gorm:"column:description"`
	IsActive             bool       `gorm:"column:is_active;not null;default:true"`
	CalculatorAvailable  bool       `gorm:"column:calculator_available;not null;default:false"`
	Position             int        `gorm:"column:position;not null;default:0"`
	PriceRows            []PriceRow `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
