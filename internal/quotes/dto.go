package quotes

import (
	"github.com/google/uuid"

	"github.com/pixelprint/pixelprint-backend/pkg/types"
)

// QuoteDTO is the resolved quote returned to callers. The breakdown mirrors
// what checkout snapshots onto an order item.
type QuoteDTO struct {
	ServiceID   uuid.UUID            `json:"service_id"`
	ServiceSlug string               `json:"service_slug"`
	ServiceName string               `json:"service_name"`
	Selection   map[string]string    `json:"selection"`
	Quantity    int                  `json:"quantity"`
	Breakdown   types.QuoteBreakdown `json:"breakdown"`
	Warnings    []string             `json:"warnings,omitempty"`
}
