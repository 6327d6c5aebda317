package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// BlockFilters narrows the content block listing.
type BlockFilters struct {
	Kind          *enums.ContentBlockKind
	PublishedOnly bool
}

// ListBlocks returns content blocks in display order.
func (r *Repository) ListBlocks(ctx context.Context, filters BlockFilters) ([]models.ContentBlock, error) {
	query := r.db.WithContext(ctx).Model(&models.ContentBlock{})
	if filters.Kind != nil {
		query = query.Where("kind = ?", *filters.Kind)
	}
	if filters.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var blocks []models.ContentBlock
	if err := query.
		Order("position ASC").
		Order("created_at ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// FindByID loads one block.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentBlock, error) {
	var block models.ContentBlock
	if err := r.db.WithContext(ctx).First(&block, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

// FindBySlug loads one block by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.ContentBlock, error) {
	var block models.ContentBlock
	if err := r.db.WithContext(ctx).First(&block, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

// CreateBlock inserts a block.
func (r *Repository) CreateBlock(ctx context.Context, block *models.ContentBlock) (*models.ContentBlock, error) {
	if block.ID == uuid.Nil {
		block.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(block).Error; err != nil {
		return nil, err
	}
	return block, nil
}

// UpdateBlock persists changes to a block.
func (r *Repository) UpdateBlock(ctx context.Context, block *models.ContentBlock) (*models.ContentBlock, error) {
	if err := r.db.WithContext(ctx).Save(block).Error; err != nil {
		return nil, err
	}
	return block, nil
}

// DeleteBlock removes a block.
func (r *Repository) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ContentBlock{}, "id = ?", id).Error
}
