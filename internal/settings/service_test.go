package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	settings := `
CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(settings).Error)
	return conn
}

func newTestSettingsService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(conn)
	require.NoError(t, err)
	return svc
}

func TestSettingsPutAndGet(t *testing.T) {
	conn := setupSettingsTestDB(t)
	svc := newTestSettingsService(t, conn)
	ctx := context.Background()

	saved, err := svc.Put(ctx, KeyContactEmail, "hello@pixelprint.example")
	require.NoError(t, err)
	assert.Equal(t, "hello@pixelprint.example", saved.Value)

	got, err := svc.Get(ctx, KeyContactEmail)
	require.NoError(t, err)
	assert.Equal(t, saved.Value, got.Value)
}

func TestSettingsPutUpserts(t *testing.T) {
	conn := setupSettingsTestDB(t)
	svc := newTestSettingsService(t, conn)
	ctx := context.Background()

	_, err := svc.Put(ctx, KeyLeadTimeDays, "3")
	require.NoError(t, err)
	updated, err := svc.Put(ctx, KeyLeadTimeDays, "5")
	require.NoError(t, err)
	assert.Equal(t, "5", updated.Value)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	count := 0
	for _, item := range list {
		if item.Key == KeyLeadTimeDays {
			count++
			assert.Equal(t, "5", item.Value)
		}
	}
	assert.Equal(t, 1, count)
}

func TestSettingsRejectsUnknownKey(t *testing.T) {
	conn := setupSettingsTestDB(t)
	svc := newTestSettingsService(t, conn)

	_, err := svc.Put(context.Background(), "vat_rate", "0.25")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSettingsGetMissingKey(t *testing.T) {
	conn := setupSettingsTestDB(t)
	svc := newTestSettingsService(t, conn)

	_, err := svc.Get(context.Background(), KeyShopAddress)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
