package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
)

// Repository persists services.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ServiceFilters narrows service listings.
type ServiceFilters struct {
	Category        *string
	CalculatorOnly  bool
	IncludeInactive bool
	Query           string
}

// ListServices returns services ordered for display.
func (r *Repository) ListServices(ctx context.Context, filters ServiceFilters) ([]models.Service, error) {
	qb := r.db.WithContext(ctx).Model(&models.Service{})
	if !filters.IncludeInactive {
		qb = qb.Where("is_active = ?", true)
	}
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.CalculatorOnly {
		qb = qb.Where("calculator_available = ?", true)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(category) LIKE ?)", pattern, pattern)
	}

	var rows []models.Service
	err := qb.Order("position ASC").Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindByID loads a service by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// FindBySlug loads a service by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// CreateService inserts a new service. Columns are selected explicitly so a
// false IsActive is written instead of being dropped in favour of the column
// default.
func (r *Repository) CreateService(ctx context.Context, svc *models.Service) (*models.Service, error) {
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).
		Select("ID", "Slug", "Name", "Category", "Description", "IsActive", "CalculatorAvailable", "Position", "CreatedAt", "UpdatedAt").
		Create(svc).
		Error
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// UpdateService saves an existing service.
func (r *Repository) UpdateService(ctx context.Context, svc *models.Service) (*models.Service, error) {
	if err := r.db.WithContext(ctx).Save(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

// DeleteService removes a service and its pricing rows.
func (r *Repository) DeleteService(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("price_row_id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.PriceRow{}).Select("id").Where("service_id = ?", id),
	).Delete(&models.PriceTier{}).Error; err != nil {
		return err
	}
	if err := tx.Where("service_id = ?", id).Delete(&models.PriceRow{}).Error; err != nil {
		return err
	}
	if err := tx.Where("service_id = ?", id).Delete(&models.AttributeModifier{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Service{}).Error
}

// CountOrderItemReferences reports how many order items snapshot this service.
func (r *Repository) CountOrderItemReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("service_id = ?", id).
		Count(&count).
		Error
	return count, err
}
