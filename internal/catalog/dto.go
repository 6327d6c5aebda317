package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
)

// ServiceDTO represents a sellable print service returned to clients.
type ServiceDTO struct {
	ID                  uuid.UUID `json:"id"`
	Slug                string    `json:"slug"`
	Name                string    `json:"name"`
	Category            string    `json:"category"`
	Description         *string   `json:"description,omitempty"`
	IsActive            bool      `json:"is_active"`
	CalculatorAvailable bool      `json:"calculator_available"`
	Position            int       `json:"position"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewServiceDTO builds a DTO from the persisted service.
func NewServiceDTO(svc *models.Service) *ServiceDTO {
	return &ServiceDTO{
		ID:                  svc.ID,
		Slug:                svc.Slug,
		Name:                svc.Name,
		Category:            svc.Category,
		Description:         svc.Description,
		IsActive:            svc.IsActive,
		CalculatorAvailable: svc.CalculatorAvailable,
		Position:            svc.Position,
		CreatedAt:           svc.CreatedAt,
		UpdatedAt:           svc.UpdatedAt,
	}
}
