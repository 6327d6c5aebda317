package artwork

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/config"
	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/types"
	"github.com/shopspring/decimal"
)

func setupArtworkTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	artworkFiles := `
CREATE TABLE IF NOT EXISTS artwork_files (
  id TEXT PRIMARY KEY,
  file_key TEXT NOT NULL UNIQUE,
  original_name TEXT NOT NULL,
  mime_type TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
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
	for _, stmt := range []string{artworkFiles, orderItems} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newTestArtworkService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	cfg := config.ArtworkConfig{
		MaxUploadMB:  10,
		AllowedMimes: []string{"application/pdf", "image/png"},
	}
	svc, err := NewService(NewRepository(conn), cfg)
	require.NoError(t, err)
	return svc
}

func validRegister() RegisterInput {
	return RegisterInput{
		FileKey:      "uploads/" + uuid.NewString() + ".pdf",
		OriginalName: "cards.pdf",
		MimeType:     "application/pdf",
		SizeBytes:    1 << 20,
	}
}

func TestArtworkRegister(t *testing.T) {
	conn := setupArtworkTestDB(t)
	svc := newTestArtworkService(t, conn)

	file, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, enums.ArtworkStatusPending, file.Status)
	assert.Equal(t, "application/pdf", file.MimeType)

	got, err := svc.Get(context.Background(), file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.FileKey, got.FileKey)
}

func TestArtworkRegisterValidation(t *testing.T) {
	conn := setupArtworkTestDB(t)
	svc := newTestArtworkService(t, conn)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing key", func(in *RegisterInput) { in.FileKey = " " }},
		{"missing name", func(in *RegisterInput) { in.OriginalName = "" }},
		{"disallowed mime", func(in *RegisterInput) { in.MimeType = "application/zip" }},
		{"zero size", func(in *RegisterInput) { in.SizeBytes = 0 }},
		{"oversized", func(in *RegisterInput) { in.SizeBytes = 11 << 20 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validRegister()
			tc.mutate(&input)
			_, err := svc.Register(ctx, input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestArtworkRegisterDuplicateKeyRejected(t *testing.T) {
	conn := setupArtworkTestDB(t)
	svc := newTestArtworkService(t, conn)
	ctx := context.Background()

	input := validRegister()
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestArtworkRejectLifecycle(t *testing.T) {
	conn := setupArtworkTestDB(t)
	svc := newTestArtworkService(t, conn)
	ctx := context.Background()

	file, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ArtworkStatusRejected, rejected.Status)

	// Attached files cannot be rejected.
	attached, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)
	require.NoError(t, conn.Model(&models.ArtworkFile{}).
		Where("id = ?", attached.ID).
		Update("status", enums.ArtworkStatusAttached).Error)

	_, err = svc.Reject(ctx, attached.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestArtworkListOrphans(t *testing.T) {
	conn := setupArtworkTestDB(t)
	svc := newTestArtworkService(t, conn)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)

	orphan := &models.ArtworkFile{
		ID:           uuid.New(),
		FileKey:      "uploads/orphan-" + uuid.NewString() + ".pdf",
		OriginalName: "orphan.pdf",
		MimeType:     "application/pdf",
		SizeBytes:    100,
		Status:       enums.ArtworkStatusPending,
		CreatedAt:    old,
	}
	referenced := &models.ArtworkFile{
		ID:           uuid.New(),
		FileKey:      "uploads/referenced-" + uuid.NewString() + ".pdf",
		OriginalName: "referenced.pdf",
		MimeType:     "application/pdf",
		SizeBytes:    100,
		Status:       enums.ArtworkStatusPending,
		CreatedAt:    old,
	}
	fresh := &models.ArtworkFile{
		ID:           uuid.New(),
		FileKey:      "uploads/fresh-" + uuid.NewString() + ".pdf",
		OriginalName: "fresh.pdf",
		MimeType:     "application/pdf",
		SizeBytes:    100,
		Status:       enums.ArtworkStatusPending,
	}
	for _, file := range []*models.ArtworkFile{orphan, referenced, fresh} {
		require.NoError(t, conn.Create(file).Error)
	}

	require.NoError(t, conn.Create(&models.OrderItem{
		ID:            uuid.New(),
		OrderID:       uuid.New(),
		ServiceName:   "Business Cards",
		Selection:     types.AttributeMap{"Paper": "Gloss"},
		Quantity:      100,
		UnitPrice:     decimal.RequireFromString("0.12"),
		TotalPrice:    decimal.RequireFromString("12.00"),
		ArtworkFileID: &referenced.ID,
	}).Error)

	orphans, err := svc.ListOrphans(ctx, 24*time.Hour)
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(orphans))
	for _, file := range orphans {
		ids[file.ID] = true
	}
	assert.True(t, ids[orphan.ID], "expected old unreferenced file to be listed")
	assert.False(t, ids[referenced.ID], "expected referenced file to be excluded")
	assert.False(t, ids[fresh.ID], "expected fresh file to be excluded")
}
