package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/db"
	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
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
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  service_id TEXT,
  service_name TEXT NOT NULL,
  selection TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  total_price TEXT NOT NULL,
  breakdown TEXT NOT NULL,
  artwork_file_id TEXT,
  created_at DATETIME
);`

	for _, stmt := range []string{services, priceRows, priceTiers, modifiers, orderItems} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func mustCreateCatalogService(t *testing.T, conn *gorm.DB, name, category string) *models.Service {
	t.Helper()
	svc := &models.Service{
		ID:       uuid.New(),
		Slug:     fmt.Sprintf("%s-%s", Slugify(name), uuid.NewString()),
		Name:     name,
		Category: category,
		IsActive: true,
	}
	require.NoError(t, conn.Create(svc).Error)
	return svc
}

func newTestCatalogService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn))
	require.NoError(t, err)
	return svc
}
