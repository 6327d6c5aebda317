package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixelprint/pixelprint-backend/api/controllers"
	"github.com/pixelprint/pixelprint-backend/api/middleware"
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
	"github.com/pixelprint/pixelprint-backend/pkg/auth/session"
	"github.com/pixelprint/pixelprint-backend/pkg/config"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
	"github.com/pixelprint/pixelprint-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth     authsvc.Service
	Catalog  catalogsvc.Service
	Rules    rulesvc.Service
	Quotes   quotesvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Content  contentsvc.Service
	Settings settingsvc.Service
	Search   searchsvc.Service
	Artwork  artworksvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": dbP,
			"redis":    redisClient,
		}))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/services", controllers.CatalogList(svcs.Catalog, logg))
		r.Get("/services/{serviceSlug}", controllers.CatalogDetail(svcs.Catalog, logg))
		r.Post("/quotes", controllers.QuoteResolve(svcs.Quotes, logg))
		r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))
		r.Post("/artwork", controllers.ArtworkRegister(svcs.Artwork, logg))
		r.Get("/content", controllers.ContentList(svcs.Content, logg))
		r.Get("/content/{blockSlug}", controllers.ContentDetail(svcs.Content, logg))
		r.Get("/settings", controllers.SettingsList(svcs.Settings, logg))
		r.Post("/search", controllers.SearchRecord(svcs.Search, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireAnyRole(logg, string(enums.UserRoleAdmin), string(enums.UserRoleStaff)))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(svcs.Orders, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderStatus(svcs.Orders, logg))
		})

		r.Route("/artwork", func(r chi.Router) {
			r.Get("/orphans", controllers.AdminArtworkOrphans(svcs.Artwork, logg))
			r.Get("/{fileId}", controllers.AdminArtworkDetail(svcs.Artwork, logg))
			r.Post("/{fileId}/reject", controllers.AdminArtworkReject(svcs.Artwork, logg))
		})

		r.Get("/search/top-terms", controllers.AdminSearchTopTerms(svcs.Search, logg))
		r.Get("/content", controllers.AdminContentList(svcs.Content, logg))
		r.Get("/services", controllers.AdminCatalogList(svcs.Catalog, logg))
		r.Get("/services/{serviceSlug}/rows", controllers.AdminRowsList(svcs.Rules, logg))
		r.Get("/services/{serviceSlug}/modifiers", controllers.AdminModifiersList(svcs.Rules, logg))

		// Mutations to catalog, pricing, content and settings stay admin only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Post("/services", controllers.AdminCatalogCreate(svcs.Catalog, logg))
			r.Put("/services/{serviceId}", controllers.AdminCatalogUpdate(svcs.Catalog, logg))
			r.Delete("/services/{serviceId}", controllers.AdminCatalogDelete(svcs.Catalog, logg))

			r.Post("/services/{serviceSlug}/rows", controllers.AdminRowCreate(svcs.Rules, logg))
			r.Patch("/rows/{rowId}", controllers.AdminRowUpdate(svcs.Rules, logg))
			r.Delete("/rows/{rowId}", controllers.AdminRowDelete(svcs.Rules, logg))
			r.Put("/rows/{rowId}/tiers", controllers.AdminRowPutTiers(svcs.Rules, logg))

			r.Post("/services/{serviceSlug}/modifiers", controllers.AdminModifierCreate(svcs.Rules, logg))
			r.Patch("/modifiers/{modifierId}", controllers.AdminModifierUpdate(svcs.Rules, logg))
			r.Delete("/modifiers/{modifierId}", controllers.AdminModifierDelete(svcs.Rules, logg))

			r.Post("/content", controllers.AdminContentCreate(svcs.Content, logg))
			r.Put("/content/{blockId}", controllers.AdminContentUpdate(svcs.Content, logg))
			r.Delete("/content/{blockId}", controllers.AdminContentDelete(svcs.Content, logg))

			r.Put("/settings/{settingKey}", controllers.AdminSettingPut(svcs.Settings, logg))
		})
	})

	return r
}
