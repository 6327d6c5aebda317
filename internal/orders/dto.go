package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	"github.com/pixelprint/pixelprint-backend/pkg/types"
)

// OrderItemDTO is one snapshotted line of an order.
type OrderItemDTO struct {
	ID            uuid.UUID            `json:"id"`
	ServiceID     *uuid.UUID           `json:"service_id,omitempty"`
	ServiceName   string               `json:"service_name"`
	Selection     types.AttributeMap   `json:"selection"`
	Quantity      int                  `json:"quantity"`
	UnitPrice     decimal.Decimal      `json:"unit_price"`
	TotalPrice    decimal.Decimal      `json:"total_price"`
	Breakdown     types.QuoteBreakdown `json:"breakdown"`
	ArtworkFileID *uuid.UUID           `json:"artwork_file_id,omitempty"`
}

// OrderDTO is the full order as returned to admin callers and as the
// checkout receipt.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	OrderNumber   int64             `json:"order_number"`
	Status        enums.OrderStatus `json:"status"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	CustomerPhone *string           `json:"customer_phone,omitempty"`
	Company       *string           `json:"company,omitempty"`
	Notes         *string           `json:"notes,omitempty"`
	Net           decimal.Decimal   `json:"net"`
	VAT           decimal.Decimal   `json:"vat"`
	Gross         decimal.Decimal   `json:"gross"`
	Items         []OrderItemDTO    `json:"items,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewOrderDTO maps an order row (and any preloaded items) to its DTO.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
		Company:       order.Company,
		Notes:         order.Notes,
		Net:           order.Net,
		VAT:           order.VAT,
		Gross:         order.Gross,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if len(order.Items) > 0 {
		dto.Items = make([]OrderItemDTO, len(order.Items))
		for i := range order.Items {
			dto.Items[i] = newOrderItemDTO(&order.Items[i])
		}
	}
	return dto
}

func newOrderItemDTO(item *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:            item.ID,
		ServiceID:     item.ServiceID,
		ServiceName:   item.ServiceName,
		Selection:     item.Selection,
		Quantity:      item.Quantity,
		UnitPrice:     item.UnitPrice,
		TotalPrice:    item.TotalPrice,
		Breakdown:     item.Breakdown,
		ArtworkFileID: item.ArtworkFileID,
	}
}
