package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/db"
	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
)

// Service exposes catalog management and storefront browse operations.
type Service interface {
	ListServices(ctx context.Context, filters ServiceFilters) ([]ServiceDTO, error)
	GetBySlug(ctx context.Context, slug string) (*ServiceDTO, error)
	CreateService(ctx context.Context, input CreateServiceInput) (*ServiceDTO, error)
	UpdateService(ctx context.Context, id uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error)
	DeleteService(ctx context.Context, id uuid.UUID) (*DeleteServiceResult, error)
}

// CreateServiceInput holds the validated payload to create a service.
type CreateServiceInput struct {
	Name                string
	Category            string
	Description         *string
	CalculatorAvailable bool
	Position            int
	IsActive            *bool
}

// UpdateServiceInput holds optional mutation values for a service.
type UpdateServiceInput struct {
	Name                *string
	Category            *string
	Description         *string
	CalculatorAvailable *bool
	Position            *int
	IsActive            *bool
}

// DeleteServiceResult reports whether the service was removed or merely
// deactivated because order history still references it.
type DeleteServiceResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// ListServices returns services matching the filters.
func (s *service) ListServices(ctx context.Context, filters ServiceFilters) ([]ServiceDTO, error) {
	rows, err := s.repo.ListServices(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list services")
	}
	dtos := make([]ServiceDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewServiceDTO(&rows[i])
	}
	return dtos, nil
}

// GetBySlug returns a single service by slug.
func (s *service) GetBySlug(ctx context.Context, slug string) (*ServiceDTO, error) {
	svc, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load service")
	}
	return NewServiceDTO(svc), nil
}

// CreateService creates a service with a slug derived from its name.
func (s *service) CreateService(ctx context.Context, input CreateServiceInput) (*ServiceDTO, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}

	slug := Slugify(name)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name does not produce a valid slug")
	}

	svc := &models.Service{
		Slug:                slug,
		Name:                name,
		Category:            category,
		Description:         input.Description,
		CalculatorAvailable: input.CalculatorAvailable,
		Position:            input.Position,
		IsActive:            boolOrDefault(input.IsActive, true),
	}

	created, err := s.repo.CreateService(ctx, svc)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("a service with slug %q already exists", slug))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert service")
	}
	return NewServiceDTO(created), nil
}

// UpdateService applies a partial update. Renaming a service re-derives its slug.
func (s *service) UpdateService(ctx context.Context, id uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error) {
	svc, err := s.findService(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		slug := Slugify(name)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name does not produce a valid slug")
		}
		svc.Name = name
		svc.Slug = slug
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		svc.Category = category
	}
	if input.Description != nil {
		svc.Description = input.Description
	}
	if input.CalculatorAvailable != nil {
		svc.CalculatorAvailable = *input.CalculatorAvailable
	}
	if input.Position != nil {
		svc.Position = *input.Position
	}
	if input.IsActive != nil {
		svc.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateService(ctx, svc)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("a service with slug %q already exists", svc.Slug))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update service")
	}
	return NewServiceDTO(updated), nil
}

// DeleteService removes a service, or deactivates it when order history
// still references it so past orders keep a resolvable snapshot.
func (s *service) DeleteService(ctx context.Context, id uuid.UUID) (*DeleteServiceResult, error) {
	svc, err := s.findService(ctx, id)
	if err != nil {
		return nil, err
	}

	references, err := s.repo.CountOrderItemReferences(ctx, svc.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count order references")
	}

	if references > 0 {
		svc.IsActive = false
		if _, err := s.repo.UpdateService(ctx, svc); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate service")
		}
		return &DeleteServiceResult{Deactivated: true}, nil
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteService(ctx, svc.ID)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete service")
	}
	return &DeleteServiceResult{Deleted: true}, nil
}

func (s *service) findService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load service")
	}
	return svc, nil
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses every non-alphanumeric run
// into a single hyphen.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
