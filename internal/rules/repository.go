package rules

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
)

// Repository wires together price row, tier, and modifier persistence.
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

// ListRowsByService returns the rows of a service with tiers preloaded in
// ascending break order. Inactive rows are included only when requested
// (admin screens edit them; the quote path never sees them).
func (r *Repository) ListRowsByService(ctx context.Context, serviceID uuid.UUID, includeInactive bool) ([]models.PriceRow, error) {
	qb := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("qty ASC")
		}).
		Where("service_id = ?", serviceID)
	if !includeInactive {
		qb = qb.Where("is_active = ?", true)
	}

	var rows []models.PriceRow
	err := qb.Order("created_at ASC").Find(&rows).Error
	return rows, err
}

// FindRowByID loads a row with its tiers.
func (r *Repository) FindRowByID(ctx context.Context, id uuid.UUID) (*models.PriceRow, error) {
	var row models.PriceRow
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("qty ASC")
		}).
		First(&row, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateRow inserts a new price row. Columns are selected explicitly so a
// false IsActive is written instead of being dropped in favour of the column
// default.
func (r *Repository) CreateRow(ctx context.Context, row *models.PriceRow) (*models.PriceRow, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).
		Select("ID", "ServiceID", "Attrs", "RuleKind", "Unit", "Fixed", "Setup", "IsActive", "CreatedAt", "UpdatedAt").
		Create(row).
		Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateRow saves an existing price row. Tiers are managed through
// ReplaceTiers, never as a side effect of saving the row.
func (r *Repository) UpdateRow(ctx context.Context, row *models.PriceRow) (*models.PriceRow, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteRow removes a row; its tiers cascade.
func (r *Repository) DeleteRow(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("price_row_id = ?", id).Delete(&models.PriceTier{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.PriceRow{}).Error
}

// ReplaceTiers swaps the full tier list of a row.
func (r *Repository) ReplaceTiers(ctx context.Context, rowID uuid.UUID, tiers []models.PriceTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("price_row_id = ?", rowID).Delete(&models.PriceTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	for i := range tiers {
		if tiers[i].ID == uuid.Nil {
			tiers[i].ID = uuid.New()
		}
	}
	return tx.Create(&tiers).Error
}

// ListModifiersByService returns the modifiers configured for a service.
func (r *Repository) ListModifiersByService(ctx context.Context, serviceID uuid.UUID, includeInactive bool) ([]models.AttributeModifier, error) {
	qb := r.db.WithContext(ctx).Where("service_id = ?", serviceID)
	if !includeInactive {
		qb = qb.Where("is_active = ?", true)
	}

	var mods []models.AttributeModifier
	err := qb.Order("attr_name ASC, attr_value ASC").Find(&mods).Error
	return mods, err
}

// FindModifierByID loads a single modifier.
func (r *Repository) FindModifierByID(ctx context.Context, id uuid.UUID) (*models.AttributeModifier, error) {
	var mod models.AttributeModifier
	if err := r.db.WithContext(ctx).First(&mod, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mod, nil
}

// CreateModifier inserts a new attribute modifier. Columns are selected
// explicitly for the same reason as CreateRow.
func (r *Repository) CreateModifier(ctx context.Context, mod *models.AttributeModifier) (*models.AttributeModifier, error) {
	if mod.ID == uuid.Nil {
		mod.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).
		Select("ID", "ServiceID", "AttrName", "AttrValue", "Kind", "Amount", "PerOrder", "IsActive", "CreatedAt", "UpdatedAt").
		Create(mod).
		Error
	if err != nil {
		return nil, err
	}
	return mod, nil
}

// UpdateModifier saves an existing attribute modifier.
func (r *Repository) UpdateModifier(ctx context.Context, mod *models.AttributeModifier) (*models.AttributeModifier, error) {
	if err := r.db.WithContext(ctx).Save(mod).Error; err != nil {
		return nil, err
	}
	return mod, nil
}

// DeleteModifier removes a modifier by ID.
func (r *Repository) DeleteModifier(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AttributeModifier{}).Error
}
