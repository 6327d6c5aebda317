package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelprint/pixelprint-backend/api/routes"
	"github.com/pixelprint/pixelprint-backend/internal/artwork"
	"github.com/pixelprint/pixelprint-backend/internal/auth"
	"github.com/pixelprint/pixelprint-backend/internal/catalog"
	"github.com/pixelprint/pixelprint-backend/internal/checkout"
	"github.com/pixelprint/pixelprint-backend/internal/content"
	"github.com/pixelprint/pixelprint-backend/internal/orders"
	"github.com/pixelprint/pixelprint-backend/internal/pricing"
	"github.com/pixelprint/pixelprint-backend/internal/quotes"
	"github.com/pixelprint/pixelprint-backend/internal/rules"
	"github.com/pixelprint/pixelprint-backend/internal/search"
	"github.com/pixelprint/pixelprint-backend/internal/settings"
	"github.com/pixelprint/pixelprint-backend/internal/users"
	"github.com/pixelprint/pixelprint-backend/pkg/auth/session"
	"github.com/pixelprint/pixelprint-backend/pkg/config"
	"github.com/pixelprint/pixelprint-backend/pkg/db"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
	"github.com/pixelprint/pixelprint-backend/pkg/metrics"
	"github.com/pixelprint/pixelprint-backend/pkg/migrate"
	"github.com/pixelprint/pixelprint-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	quoteMetrics := metrics.NewQuoteMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	rulesRepo := rules.NewRepository(dbClient.DB())
	rulesService, err := rules.NewService(rulesRepo, dbClient, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing rule service", err)
		os.Exit(1)
	}

	quoteService, err := quotes.NewService(catalogRepo, rulesRepo, pricing.NewAssembler(cfg.Pricing.VAT()), logg, quoteMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.NewRepository(dbClient.DB()), dbClient, quoteService, cfg.Checkout, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	contentService, err := content.NewService(content.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create content service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	searchService, err := search.NewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create search service", err)
		os.Exit(1)
	}

	artworkService, err := artwork.NewService(artwork.NewRepository(dbClient.DB()), cfg.Artwork)
	if err != nil {
		logg.Error(context.Background(), "failed to create artwork service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, routes.Services{
		Auth:     authService,
		Catalog:  catalogService,
		Rules:    rulesService,
		Quotes:   quoteService,
		Checkout: checkoutService,
		Orders:   ordersService,
		Content:  contentService,
		Settings: settingsService,
		Search:   searchService,
		Artwork:  artworkService,
	}, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
