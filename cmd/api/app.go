package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/indiestorelabs/indiestore-backend/internal/config"
	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
	"github.com/indiestorelabs/indiestore-backend/internal/events"
	"github.com/indiestorelabs/indiestore-backend/internal/httpx"
	"github.com/indiestorelabs/indiestore-backend/internal/metrics"
	"github.com/indiestorelabs/indiestore-backend/internal/modules/catalog"
	"github.com/indiestorelabs/indiestore-backend/internal/modules/order"
)

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	instrumented := metrics.InstrumentStore(store)

	// ── Catalog ──────────────────────────────────────────────
	catalogRepo := catalog.NewStoreRepository(instrumented)
	if cfg.RedisURL != "" {
		client, err := catalog.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		catalogRepo = catalog.NewCachedRepository(catalogRepo, client, logger)
		logger.Info("catalog cache enabled")
	}
	catalogService := catalog.NewService(catalogRepo)

	// ── Orders ───────────────────────────────────────────────
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		natsPub, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			return err
		}
		defer natsPub.Close()
		publisher = natsPub
		logger.Info("order events enabled")
	}
	orderService := order.NewService(order.NewStoreRepository(instrumented), publisher, logger)

	// ── Seed ─────────────────────────────────────────────────
	if cfg.SeedOnStart {
		inserted, err := catalogService.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed on start: %w", err)
		}
		if inserted > 0 {
			logger.Info("seeded catalog", "products", inserted)
		}
	}

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           newRouter(store, catalogService, orderService),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}

func runSeed(ctx context.Context) error {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	inserted, err := catalog.NewService(catalog.NewStoreRepository(store)).Seed(ctx)
	if err != nil {
		return err
	}
	logger.Info("seed complete", "products", inserted)
	return nil
}

func runImport(ctx context.Context, path string) error {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	result, err := catalog.NewService(catalog.NewStoreRepository(store)).ImportProducts(ctx, f)
	if err != nil {
		return err
	}
	for _, problem := range result.Errors {
		logger.Warn("import row skipped", "reason", problem)
	}
	logger.Info("import complete", "imported", result.Imported, "skipped", len(result.Errors))
	return nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (docstore.Store, error) {
	switch cfg.StoreBackend {
	case "mongo":
		logger.Info("opening mongo store", "db", cfg.MongoDB)
		return docstore.OpenMongo(ctx, cfg.MongoURL, cfg.MongoDB)
	case "postgres":
		logger.Info("opening postgres store")
		return docstore.OpenPostgres(ctx, cfg.DatabaseURL)
	case "memory":
		logger.Info("using in-memory store")
		return docstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

func newRouter(store docstore.Store, catalogService catalog.Service, orderService order.Service) *chi.Mux {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	router.Use(metrics.Middleware)

	catalog.NewHandler(catalogService).RegisterRoutes(router)
	order.NewHandler(orderService).RegisterRoutes(router)

	router.Get("/", welcome)
	router.Get("/health", healthHandler(store))
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	return router
}

func welcome(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the IndieStore API"})
}

// healthHandler reports whether the configured store is reachable.
func healthHandler(store docstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "degraded",
				"database": "unavailable",
			})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"database": "connected",
		})
	}
}
