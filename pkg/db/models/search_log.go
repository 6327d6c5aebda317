package models

import (
	"time"

	"github.com/google/uuid"
)

// SearchLog records one storefront search and how many services matched.
type SearchLog struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Term         string    `gorm:"column:term;not null;index"`
	ResultsCount int       `gorm:"column:results_count;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
