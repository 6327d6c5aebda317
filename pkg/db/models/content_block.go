package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pixelprint/pixelprint-backend/pkg/enums"
)

// ContentBlock is an admin-managed marketing fragment rendered by the storefront.
type ContentBlock struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string                 `gorm:"column:slug;not null;uniqueIndex"`
	Kind        enums.ContentBlockKind `gorm:"column:kind;not null"`
	Title       string                 `gorm:"column:title;not null"`
	Body        string                 `gorm:"column:body;not null"`
	IsPublished bool                   `gorm:"column:is_published;not null;default:false"`
	Position    int                    `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
