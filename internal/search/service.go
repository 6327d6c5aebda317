package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
)

const maxTermLength = 120

// TermStat aggregates how often a term was searched and how well it hit.
type TermStat struct {
	Term       string  `json:"term"`
	Searches   int64   `json:"searches"`
	AvgResults float64 `json:"avg_results"`
}

// Service records storefront searches and reports popular terms.
type Service interface {
	Record(ctx context.Context, term string, resultsCount int) error
	TopTerms(ctx context.Context, since time.Time, limit int) ([]TermStat, error)
}

type service struct {
	db *gorm.DB
}

// NewService constructs the search logging service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &service{db: db}, nil
}

// Record stores one search. Blank terms are dropped; long terms truncated.
func (s *service) Record(ctx context.Context, term string, resultsCount int) error {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return nil
	}
	if len(term) > maxTermLength {
		term = term[:maxTermLength]
	}
	if resultsCount < 0 {
		resultsCount = 0
	}

	entry := models.SearchLog{
		ID:           uuid.New(),
		Term:         term,
		ResultsCount: resultsCount,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert search log")
	}
	return nil
}

// TopTerms returns the most searched terms since the given time, most
// frequent first. Zero-result terms surface what the catalog is missing.
func (s *service) TopTerms(ctx context.Context, since time.Time, limit int) ([]TermStat, error) {
	if limit <= 0 {
		limit = 20
	}

	var stats []TermStat
	if err := s.db.WithContext(ctx).
		Model(&models.SearchLog{}).
		Select("term, COUNT(*) AS searches, AVG(results_count) AS avg_results").
		Where("created_at >= ?", since).
		Group("term").
		Order("searches DESC").
		Order("term ASC").
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: aggregate search terms")
	}
	return stats, nil
}
