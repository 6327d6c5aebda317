package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pixelprint/pixelprint-backend/pkg/enums"
)

// ArtworkFile tracks an uploaded print file through review. Pending files not
// attached to an order item are periodically swept.
type ArtworkFile struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FileKey      string              `gorm:"column:file_key;not null;uniqueIndex"`
	OriginalName string              `gorm:"column:original_name;not null"`
	MimeType     string              `gorm:"column:mime_type;not null"`
	SizeBytes    int64               `gorm:"column:size_bytes;not null"`
	Status       enums.ArtworkStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
