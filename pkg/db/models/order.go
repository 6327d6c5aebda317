package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/pkg/enums"
)

// Order is the checkout record. Totals snapshot the quotes resolved at checkout
// time and never change when price rows are later edited.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber   int64             `gorm:"column:order_number;not null;uniqueIndex"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'new'"`
	CustomerName  string            `gorm:"column:customer_name;not null"`
	CustomerEmail string            `gorm:"column:customer_email;not null"`
	CustomerPhone *string           `gorm:"column:customer_phone"`
	Company       *string           `gorm:"column:company"`
	Notes         *string           `gorm:"column:notes"`
	Net           decimal.Decimal   `gorm:"column:net;type:numeric(12,2);not null"`
	VAT           decimal.Decimal   `gorm:"column:vat;type:numeric(12,2);not null"`
	Gross         decimal.Decimal   `gorm:"column:gross;type:numeric(12,2);not null"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
