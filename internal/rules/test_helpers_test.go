package rules

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/db"
	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
)

func setupRulesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	services := `
CREATE TABLE IF NOT EXISTS services (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  calculator_available INTEGER NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	priceRows := `
CREATE TABLE IF NOT EXISTS price_rows (
  id TEXT PRIMARY KEY,
  service_id TEXT NOT NULL,
  attrs TEXT NOT NULL,
  rule_kind TEXT NOT NULL,
  unit TEXT,
  fixed TEXT,
  setup TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	priceTiers := `
CREATE TABLE IF NOT EXISTS price_tiers (
  id TEXT PRIMARY KEY,
  price_row_id TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit TEXT NOT NULL,
  created_at DATETIME
);`
	tiersIndex := `
CREATE UNIQUE INDEX IF NOT EXISTS idx_price_tiers_row_qty ON price_tiers (price_row_id, qty);`
	modifiers := `
CREATE TABLE IF NOT EXISTS attribute_modifiers (
  id TEXT PRIMARY KEY,
  service_id TEXT NOT NULL,
  attr_name TEXT NOT NULL,
  attr_value TEXT NOT NULL,
  kind TEXT NOT NULL,
  amount TEXT NOT NULL,
  per_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	modifiersIndex := `
CREATE UNIQUE INDEX IF NOT EXISTS idx_attribute_modifiers_axis ON attribute_modifiers (service_id, attr_name, attr_value);`

	for _, stmt := range []string{services, priceRows, priceTiers, tiersIndex, modifiers, modifiersIndex} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func mustCreateTestService(t *testing.T, conn *gorm.DB) *models.Service {
	t.Helper()
	svc := &models.Service{
		ID:       uuid.New(),
		Slug:     fmt.Sprintf("test-service-%s", uuid.NewString()),
		Name:     "Test Service",
		Category: "print",
		IsActive: true,
	}
	require.NoError(t, conn.Create(svc).Error)
	return svc
}

type gormServiceResolver struct {
	conn *gorm.DB
}

func (r *gormServiceResolver) FindBySlug(ctx context.Context, slug string) (*models.Service, error) {
	var svc models.Service
	if err := r.conn.WithContext(ctx).First(&svc, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), &gormServiceResolver{conn: conn})
	require.NoError(t, err)
	return svc
}
