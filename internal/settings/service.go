package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
)

// Known setting keys. Arbitrary keys are rejected so typos do not create
// orphaned configuration the storefront never reads.
const (
	KeyContactEmail   = "contact_email"
	KeyContactPhone   = "contact_phone"
	KeyLeadTimeDays   = "lead_time_days"
	KeyShopAddress    = "shop_address"
	KeyAnnouncementID = "announcement_block"
)

var knownKeys = map[string]struct{}{
	KeyContactEmail:   {},
	KeyContactPhone:   {},
	KeyLeadTimeDays:   {},
	KeyShopAddress:    {},
	KeyAnnouncementID: {},
}

// SettingDTO is one key/value pair.
type SettingDTO struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service reads and writes shop settings.
type Service interface {
	List(ctx context.Context) ([]SettingDTO, error)
	Get(ctx context.Context, key string) (*SettingDTO, error)
	Put(ctx context.Context, key, value string) (*SettingDTO, error)
}

type service struct {
	db *gorm.DB
}

// NewService constructs the settings service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &service{db: db}, nil
}

func (s *service) List(ctx context.Context) ([]SettingDTO, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Order("key ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list settings")
	}
	dtos := make([]SettingDTO, len(rows))
	for i, row := range rows {
		dtos[i] = SettingDTO{Key: row.Key, Value: row.Value, UpdatedAt: row.UpdatedAt}
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, key string) (*SettingDTO, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	var row models.Setting
	if err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load setting")
	}
	return &SettingDTO{Key: row.Key, Value: row.Value, UpdatedAt: row.UpdatedAt}, nil
}

// Put upserts a known setting key.
func (s *service) Put(ctx context.Context, key, value string) (*SettingDTO, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if _, ok := knownKeys[key]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown setting key %q", key))
	}

	row := models.Setting{Key: key, Value: value}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert setting")
	}
	return s.Get(ctx, key)
}
