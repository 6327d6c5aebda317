package checkout

import (
	"context"
	"database/sql"

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

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// NextOrderNumber allocates the next sequential public order number. The
// first order ever placed receives the configured start value. The read-max
// allocation is not serialized against concurrent checkouts: two
// transactions can read the same maximum, and the unique index on
// order_number rejects the loser. Callers must retry the enclosing
// transaction on that unique violation.
func (r *Repository) NextOrderNumber(ctx context.Context, start int64) (int64, error) {
	var current sql.NullInt64
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("MAX(order_number)").
		Scan(&current).Error; err != nil {
		return 0, err
	}
	if !current.Valid || current.Int64 < start {
		return start, nil
	}
	return current.Int64 + 1, nil
}

// CreateOrder inserts the order and its items.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindArtworkFile loads one uploaded artwork file.
func (r *Repository) FindArtworkFile(ctx context.Context, id uuid.UUID) (*models.ArtworkFile, error) {
	var file models.ArtworkFile
	if err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// MarkArtworkAttached flips an artwork file to attached once an order item
// references it.
func (r *Repository) MarkArtworkAttached(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ArtworkFile{}).
		Where("id = ?", id).
		Update("status", enums.ArtworkStatusAttached).Error
}
