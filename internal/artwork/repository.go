package artwork

import (
	"context"
	"time"

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

// CreateFile inserts an uploaded artwork record.
func (r *Repository) CreateFile(ctx context.Context, file *models.ArtworkFile) (*models.ArtworkFile, error) {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

// FindByID loads one artwork file.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ArtworkFile, error) {
	var file models.ArtworkFile
	if err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// UpdateStatus sets the review status of a file.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ArtworkStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ArtworkFile{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ListOrphans returns pending files uploaded before the cutoff that no order
// item references. These are candidates for storage cleanup.
func (r *Repository) ListOrphans(ctx context.Context, before time.Time) ([]models.ArtworkFile, error) {
	var files []models.ArtworkFile
	if err := r.db.WithContext(ctx).
		Where("status = ?", enums.ArtworkStatusPending).
		Where("created_at < ?", before).
		Where("id NOT IN (?)", r.db.
			Session(&gorm.Session{NewDB: true}).
			Model(&models.OrderItem{}).
			Select("artwork_file_id").
			Where("artwork_file_id IS NOT NULL")).
		Order("created_at ASC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteFile removes an artwork record.
func (r *Repository) DeleteFile(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ArtworkFile{}, "id = ?", id).Error
}
