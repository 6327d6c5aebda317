package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	artworksvc "github.com/pixelprint/pixelprint-backend/internal/artwork"
	authsvc "github.com/pixelprint/pixelprint-backend/internal/auth"
	catalogsvc "github.com/pixelprint/pixelprint-backend/internal/catalog"
	checkoutsvc "github.com/pixelprint/pixelprint-backend/internal/checkout"
	contentsvc "github.com/pixelprint/pixelprint-backend/internal/content"
	ordersvc "github.com/pixelprint/pixelprint-backend/internal/orders"
	quotesvc "github.com/pixelprint/pixelprint-backend/internal/quotes"
	rulesvc "github.com/pixelprint/pixelprint-backend/internal/rules"
	searchsvc "github.com/pixelprint/pixelprint-backend/internal/search"
	settingsvc "github.com/pixelprint/pixelprint-backend/internal/settings"
	pkgAuth "github.com/pixelprint/pixelprint-backend/pkg/auth"
	"github.com/pixelprint/pixelprint-backend/pkg/auth/session"
	"github.com/pixelprint/pixelprint-backend/pkg/config"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
	"github.com/pixelprint/pixelprint-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubCatalogService struct {
	listFn func(ctx context.Context, filters catalogsvc.ServiceFilters) ([]catalogsvc.ServiceDTO, error)
}

func (s stubCatalogService) ListServices(ctx context.Context, filters catalogsvc.ServiceFilters) ([]catalogsvc.ServiceDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filters)
	}
	return []catalogsvc.ServiceDTO{}, nil
}

// GetBySlug implements [catalog.Service].
func (s stubCatalogService) GetBySlug(ctx context.Context, slug string) (*catalogsvc.ServiceDTO, error) {
	panic("unimplemented")
}

// CreateService implements [catalog.Service].
func (s stubCatalogService) CreateService(ctx context.Context, input catalogsvc.CreateServiceInput) (*catalogsvc.ServiceDTO, error) {
	panic("unimplemented")
}

// UpdateService implements [catalog.Service].
func (s stubCatalogService) UpdateService(ctx context.Context, id uuid.UUID, input catalogsvc.UpdateServiceInput) (*catalogsvc.ServiceDTO, error) {
	panic("unimplemented")
}

func (s stubCatalogService) DeleteService(ctx context.Context, id uuid.UUID) (*catalogsvc.DeleteServiceResult, error) {
	return &catalogsvc.DeleteServiceResult{Deleted: true}, nil
}

type stubRulesService struct{}

// ListRows implements [rules.Service].
func (s stubRulesService) ListRows(ctx context.Context, serviceSlug string, includeInactive bool) ([]rulesvc.RowDTO, error) {
	panic("unimplemented")
}

// CreateRow implements [rules.Service].
func (s stubRulesService) CreateRow(ctx context.Context, serviceSlug string, input rulesvc.CreateRowInput) (*rulesvc.RowDTO, error) {
	panic("unimplemented")
}

// UpdateRow implements [rules.Service].
func (s stubRulesService) UpdateRow(ctx context.Context, rowID uuid.UUID, input rulesvc.UpdateRowInput) (*rulesvc.RowDTO, error) {
	panic("unimplemented")
}

// DeleteRow implements [rules.Service].
func (s stubRulesService) DeleteRow(ctx context.Context, rowID uuid.UUID) error {
	panic("unimplemented")
}

// PutTiers implements [rules.Service].
func (s stubRulesService) PutTiers(ctx context.Context, rowID uuid.UUID, input rulesvc.PutTiersInput) (*rulesvc.RowDTO, error) {
	panic("unimplemented")
}

// ListModifiers implements [rules.Service].
func (s stubRulesService) ListModifiers(ctx context.Context, serviceSlug string, includeInactive bool) ([]rulesvc.ModifierDTO, error) {
	panic("unimplemented")
}

// CreateModifier implements [rules.Service].
func (s stubRulesService) CreateModifier(ctx context.Context, serviceSlug string, input rulesvc.CreateModifierInput) (*rulesvc.ModifierDTO, error) {
	panic("unimplemented")
}

// UpdateModifier implements [rules.Service].
func (s stubRulesService) UpdateModifier(ctx context.Context, modifierID uuid.UUID, input rulesvc.UpdateModifierInput) (*rulesvc.ModifierDTO, error) {
	panic("unimplemented")
}

// DeleteModifier implements [rules.Service].
func (s stubRulesService) DeleteModifier(ctx context.Context, modifierID uuid.UUID) error {
	panic("unimplemented")
}

type stubQuotesService struct {
	resolveFn func(ctx context.Context, input quotesvc.ResolveInput) (*quotesvc.QuoteDTO, error)
}

func (s stubQuotesService) Resolve(ctx context.Context, input quotesvc.ResolveInput) (*quotesvc.QuoteDTO, error) {
	if s.resolveFn != nil {
		return s.resolveFn(ctx, input)
	}
	return &quotesvc.QuoteDTO{}, nil
}

type stubCheckoutService struct{}

// PlaceOrder implements [checkout.Service].
func (s stubCheckoutService) PlaceOrder(ctx context.Context, input checkoutsvc.PlaceOrderInput) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (s stubOrdersService) ListOrders(ctx context.Context, input ordersvc.ListOrdersInput) (*ordersvc.ListOrdersResult, error) {
	return &ordersvc.ListOrdersResult{}, nil
}

// GetOrder implements [orders.Service].
func (s stubOrdersService) GetOrder(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

// GetByOrderNumber implements [orders.Service].
func (s stubOrdersService) GetByOrderNumber(ctx context.Context, number int64) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

// UpdateStatus implements [orders.Service].
func (s stubOrdersService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

type stubContentService struct{}

func (s stubContentService) ListBlocks(ctx context.Context, kind *string, publishedOnly bool) ([]contentsvc.BlockDTO, error) {
	return []contentsvc.BlockDTO{}, nil
}

// GetBySlug implements [content.Service].
func (s stubContentService) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*contentsvc.BlockDTO, error) {
	panic("unimplemented")
}

// CreateBlock implements [content.Service].
func (s stubContentService) CreateBlock(ctx context.Context, input contentsvc.CreateBlockInput) (*contentsvc.BlockDTO, error) {
	panic("unimplemented")
}

// UpdateBlock implements [content.Service].
func (s stubContentService) UpdateBlock(ctx context.Context, id uuid.UUID, input contentsvc.UpdateBlockInput) (*contentsvc.BlockDTO, error) {
	panic("unimplemented")
}

// DeleteBlock implements [content.Service].
func (s stubContentService) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubSettingsService struct{}

func (s stubSettingsService) List(ctx context.Context) ([]settingsvc.SettingDTO, error) {
	return []settingsvc.SettingDTO{}, nil
}

// Get implements [settings.Service].
func (s stubSettingsService) Get(ctx context.Context, key string) (*settingsvc.SettingDTO, error) {
	panic("unimplemented")
}

// Put implements [settings.Service].
func (s stubSettingsService) Put(ctx context.Context, key, value string) (*settingsvc.SettingDTO, error) {
	panic("unimplemented")
}

type stubSearchService struct{}

func (s stubSearchService) Record(ctx context.Context, term string, resultsCount int) error {
	return nil
}

// TopTerms implements [search.Service].
func (s stubSearchService) TopTerms(ctx context.Context, since time.Time, limit int) ([]searchsvc.TermStat, error) {
	panic("unimplemented")
}

type stubArtworkService struct{}

// Register implements [artwork.Service].
func (s stubArtworkService) Register(ctx context.Context, input artworksvc.RegisterInput) (*artworksvc.FileDTO, error) {
	panic("unimplemented")
}

// Get implements [artwork.Service].
func (s stubArtworkService) Get(ctx context.Context, id uuid.UUID) (*artworksvc.FileDTO, error) {
	panic("unimplemented")
}

// Reject implements [artwork.Service].
func (s stubArtworkService) Reject(ctx context.Context, id uuid.UUID) (*artworksvc.FileDTO, error) {
	panic("unimplemented")
}

// ListOrphans implements [artwork.Service].
func (s stubArtworkService) ListOrphans(ctx context.Context, olderThan time.Duration) ([]artworksvc.FileDTO, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionChecker{},
		Services{
			Auth:     stubAuthService{},
			Catalog:  stubCatalogService{},
			Rules:    stubRulesService{},
			Quotes:   stubQuotesService{},
			Checkout: stubCheckoutService{},
			Orders:   stubOrdersService{},
			Content:  stubContentService{},
			Settings: stubSettingsService{},
			Search:   stubSearchService{},
			Artwork:  stubArtworkService{},
		},
		nil,
	)
}

func TestHealthLiveResponds(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestAdminGroupRejectsMissingToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupAdmitsStaffRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/services", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff listing got %d", resp.Code)
	}
}

func TestCatalogMutationRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/admin/v1/services/" + uuid.NewString()

	staff := httptest.NewRequest(http.MethodDelete, target, nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff delete got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodDelete, target, nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete got %d", resp.Code)
	}
}

func TestPublicQuoteRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestPublicQuoteAcceptsGoodJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"service_slug":"business-cards","selection":{"paper":"350gsm"},"quantity":500}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid payload got %d", resp.Code)
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
