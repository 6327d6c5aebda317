package artwork

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/config"
	"github.com/pixelprint/pixelprint-backend/pkg/db"
	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
)

// FileDTO is the transport shape of an uploaded artwork file.
type FileDTO struct {
	ID           uuid.UUID           `json:"id"`
	FileKey      string              `json:"file_key"`
	OriginalName string              `json:"original_name"`
	MimeType     string              `json:"mime_type"`
	SizeBytes    int64               `json:"size_bytes"`
	Status       enums.ArtworkStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

// RegisterInput describes an upload the storage layer has already accepted.
type RegisterInput struct {
	FileKey      string
	OriginalName string
	MimeType     string
	SizeBytes    int64
}

// Service manages uploaded artwork records.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*FileDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*FileDTO, error)
	Reject(ctx context.Context, id uuid.UUID) (*FileDTO, error)
	ListOrphans(ctx context.Context, olderThan time.Duration) ([]FileDTO, error)
}

type service struct {
	repo *Repository
	cfg  config.ArtworkConfig
}

// NewService constructs the artwork service.
func NewService(repo *Repository, cfg config.ArtworkConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("artwork repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

// Register records an uploaded file after validating it against the
// configured mime allow-list and size limit.
func (s *service) Register(ctx context.Context, input RegisterInput) (*FileDTO, error) {
	key := strings.TrimSpace(input.FileKey)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file key is required")
	}
	name := strings.TrimSpace(input.OriginalName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "original file name is required")
	}

	mime := strings.TrimSpace(strings.ToLower(input.MimeType))
	if !s.mimeAllowed(mime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file type %q is not accepted, allowed: %s", mime, strings.Join(s.cfg.AllowedMimes, ", ")))
	}

	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file size must be positive")
	}
	if maxBytes := int64(s.cfg.MaxUploadMB) << 20; maxBytes > 0 && input.SizeBytes > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %dMB upload limit", s.cfg.MaxUploadMB))
	}

	file, err := s.repo.CreateFile(ctx, &models.ArtworkFile{
		FileKey:      key,
		OriginalName: name,
		MimeType:     mime,
		SizeBytes:    input.SizeBytes,
		Status:       enums.ArtworkStatusPending,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "file key already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert artwork file")
	}
	dto := newFileDTO(file)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*FileDTO, error) {
	file, err := s.findFile(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := newFileDTO(file)
	return &dto, nil
}

// Reject marks a pending file as unusable for print. Files already attached
// to an order stay attached; the order keeps its history.
func (s *service) Reject(ctx context.Context, id uuid.UUID) (*FileDTO, error) {
	file, err := s.findFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.Status == enums.ArtworkStatusAttached {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "file is attached to an order and cannot be rejected")
	}
	if file.Status != enums.ArtworkStatusRejected {
		if err := s.repo.UpdateStatus(ctx, id, enums.ArtworkStatusRejected); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update artwork status")
		}
		file.Status = enums.ArtworkStatusRejected
	}
	dto := newFileDTO(file)
	return &dto, nil
}

// ListOrphans returns unattached pending files older than the given age.
func (s *service) ListOrphans(ctx context.Context, olderThan time.Duration) ([]FileDTO, error) {
	if olderThan < 0 {
		olderThan = 0
	}
	files, err := s.repo.ListOrphans(ctx, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orphan artwork")
	}
	dtos := make([]FileDTO, len(files))
	for i := range files {
		dtos[i] = newFileDTO(&files[i])
	}
	return dtos, nil
}

func (s *service) findFile(ctx context.Context, id uuid.UUID) (*models.ArtworkFile, error) {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artwork file not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load artwork file")
	}
	return file, nil
}

func (s *service) mimeAllowed(mime string) bool {
	for _, allowed := range s.cfg.AllowedMimes {
		if strings.EqualFold(strings.TrimSpace(allowed), mime) {
			return true
		}
	}
	return false
}

func newFileDTO(file *models.ArtworkFile) FileDTO {
	return FileDTO{
		ID:           file.ID,
		FileKey:      file.FileKey,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		SizeBytes:    file.SizeBytes,
		Status:       file.Status,
		CreatedAt:    file.CreatedAt,
	}
}
