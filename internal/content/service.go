package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/db"
	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
)

// BlockDTO is the transport shape of a content block.
type BlockDTO struct {
	ID          uuid.UUID              `json:"id"`
	Slug        string                 `json:"slug"`
	Kind        enums.ContentBlockKind `json:"kind"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	IsPublished bool                   `json:"is_published"`
	Position    int                    `json:"position"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// CreateBlockInput holds the payload to create a content block.
type CreateBlockInput struct {
	Slug        string
	Kind        string
	Title       string
	Body        string
	IsPublished bool
	Position    int
}

// UpdateBlockInput holds optional mutation values.
type UpdateBlockInput struct {
	Title       *string
	Body        *string
	IsPublished *bool
	Position    *int
}

// Service manages marketing content blocks.
type Service interface {
	ListBlocks(ctx context.Context, kind *string, publishedOnly bool) ([]BlockDTO, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*BlockDTO, error)
	CreateBlock(ctx context.Context, input CreateBlockInput) (*BlockDTO, error)
	UpdateBlock(ctx context.Context, id uuid.UUID, input UpdateBlockInput) (*BlockDTO, error)
	DeleteBlock(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs the content service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("content repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListBlocks(ctx context.Context, kind *string, publishedOnly bool) ([]BlockDTO, error) {
	filters := BlockFilters{PublishedOnly: publishedOnly}
	if kind != nil {
		parsed, err := enums.ParseContentBlockKind(*kind)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		filters.Kind = &parsed
	}

	blocks, err := s.repo.ListBlocks(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list content blocks")
	}
	dtos := make([]BlockDTO, len(blocks))
	for i := range blocks {
		dtos[i] = newBlockDTO(&blocks[i])
	}
	return dtos, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*BlockDTO, error) {
	block, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "content block not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load content block")
	}
	if publishedOnly && !block.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "content block not found")
	}
	dto := newBlockDTO(block)
	return &dto, nil
}

func (s *service) CreateBlock(ctx context.Context, input CreateBlockInput) (*BlockDTO, error) {
	slug := strings.TrimSpace(strings.ToLower(input.Slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	kind, err := enums.ParseContentBlockKind(input.Kind)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	block, err := s.repo.CreateBlock(ctx, &models.ContentBlock{
		Slug:        slug,
		Kind:        kind,
		Title:       strings.TrimSpace(input.Title),
		Body:        input.Body,
		IsPublished: input.IsPublished,
		Position:    input.Position,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("a content block with slug %q already exists", slug))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert content block")
	}
	dto := newBlockDTO(block)
	return &dto, nil
}

func (s *service) UpdateBlock(ctx context.Context, id uuid.UUID, input UpdateBlockInput) (*BlockDTO, error) {
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "content block not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load content block")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		block.Title = title
	}
	if input.Body != nil {
		block.Body = *input.Body
	}
	if input.IsPublished != nil {
		block.IsPublished = *input.IsPublished
	}
	if input.Position != nil {
		block.Position = *input.Position
	}

	updated, err := s.repo.UpdateBlock(ctx, block)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update content block")
	}
	dto := newBlockDTO(updated)
	return &dto, nil
}

func (s *service) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "content block not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load content block")
	}
	if err := s.repo.DeleteBlock(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete content block")
	}
	return nil
}

func newBlockDTO(block *models.ContentBlock) BlockDTO {
	return BlockDTO{
		ID:          block.ID,
		Slug:        block.Slug,
		Kind:        block.Kind,
		Title:       block.Title,
		Body:        block.Body,
		IsPublished: block.IsPublished,
		Position:    block.Position,
		CreatedAt:   block.CreatedAt,
		UpdatedAt:   block.UpdatedAt,
	}
}
