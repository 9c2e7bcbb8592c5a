package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/p-n-ai/worksheet-gen/internal/ai"
	"github.com/p-n-ai/worksheet-gen/internal/authoring"
	"github.com/p-n-ai/worksheet-gen/internal/curriculum"
	"github.com/p-n-ai/worksheet-gen/internal/editor"
	"github.com/p-n-ai/worksheet-gen/internal/generator"
	"github.com/p-n-ai/worksheet-gen/internal/platform/cache"
	"github.com/p-n-ai/worksheet-gen/internal/platform/config"
	"github.com/p-n-ai/worksheet-gen/internal/platform/database"
	"github.com/p-n-ai/worksheet-gen/internal/server"
	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
	"github.com/p-n-ai/worksheet-gen/standards"
)

// localCacheEntries bounds the in-process generation cache.
const localCacheEntries = 50

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	handler, cleanup, err := setup(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		// AI authoring with retries can run well past a plain JSON response.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newLogger builds the process logger from the log settings. Unknown levels
// fall back to info.
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// setup wires storage, caching, AI providers and the HTTP API. The returned
// cleanup closes every connection that was opened.
func setup(ctx context.Context, cfg *config.Config) (http.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (http.Handler, func(), error) {
		cleanup()
		return nil, nil, err
	}
	checks := map[string]server.Check{}

	var (
		store  worksheet.Store
		events worksheet.EventLogger
	)
	if cfg.Database.URL != "" {
		if cfg.Database.Migrate {
			if err := database.Migrate(cfg.Database.URL); err != nil {
				return fail(err)
			}
		}
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return fail(fmt.Errorf("connecting to database: %w", err))
		}
		closers = append(closers, db.Close)
		checks["database"] = db.HealthCheck

		pg, err := worksheet.NewPostgresStore(db.Pool)
		if err != nil {
			return fail(err)
		}
		store, events = pg, worksheet.NewPostgresEventLogger(db.Pool)
		slog.Info("worksheet store ready", "backend", "postgres")
	} else {
		store, events = worksheet.NewMemoryStore(), worksheet.NopEventLogger{}
		slog.Warn("WS_DATABASE_URL not set, worksheets are kept in memory")
	}

	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	var genCache authoring.Cache = authoring.NewMemoryCache(ttl, localCacheEntries)
	if cfg.Cache.URL != "" {
		rc, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return fail(fmt.Errorf("connecting to cache: %w", err))
		}
		closers = append(closers, func() { rc.Close() })
		checks["cache"] = rc.HealthCheck
		genCache = authoring.TieredCache{L1: genCache, L2: authoring.NewRedisCache(rc, ttl)}
		slog.Info("generation cache ready", "backend", "redis")
	}

	catalog, err := loadCatalog(cfg.CurriculumPath)
	if err != nil {
		return fail(err)
	}

	router, err := newRouter(cfg.AI)
	if err != nil {
		return fail(err)
	}

	var author editor.Author
	if router.HasProvider() {
		checks["ai"] = router.HealthCheck
		slog.Info("AI providers registered", "providers", router.Providers())
		delay := time.Duration(cfg.AI.RetryDelayMS) * time.Millisecond
		if delay == 0 {
			delay = -1
		}
		author = authoring.New(authoring.Config{
			Completer:  router,
			Images:     router,
			Catalog:    catalog,
			Cache:      genCache,
			Attempts:   cfg.AI.Attempts,
			RetryDelay: delay,
		})
	} else {
		slog.Warn("no AI provider configured, reading and language standards are disabled")
	}

	hub := server.NewHub(cfg.Server.CORSOrigins)
	svc := editor.New(editor.Config{
		Store: store,
		Generator: generator.New(generator.Options{
			Seed:               uint64(cfg.Generation.Seed),
			MaxRetries:         cfg.Generation.MaxRetries,
			UniquenessAttempts: cfg.Generation.UniquenessAttempts,
		}),
		Author:   author,
		Catalog:  catalog,
		Events:   events,
		Notifier: hub,
	})

	srv := server.New(server.Config{
		Editor:      svc,
		Standards:   catalog,
		AI:          router,
		Hub:         hub,
		CORSOrigins: cfg.Server.CORSOrigins,
		Checks:      checks,
	})
	return srv.Handler(), cleanup, nil
}

// loadCatalog reads the standards from dir, or from the embedded copy when dir
// does not exist.
func loadCatalog(dir string) (*curriculum.Loader, error) {
	if _, err := os.Stat(dir); err == nil {
		loader, err := curriculum.NewLoader(dir)
		if err != nil {
			return nil, err
		}
		slog.Info("standards loaded", "path", dir, "count", len(loader.All()))
		return loader, nil
	}
	loader, err := curriculum.NewLoaderFS(standards.FS)
	if err != nil {
		return nil, err
	}
	slog.Info("standards loaded", "path", "embedded", "count", len(loader.All()))
	return loader, nil
}

// newRouter registers every provider with credentials. Anthropic is tried
// first for text; only Google can draw illustrations.
func newRouter(cfg config.AIConfig) (*ai.Router, error) {
	router := ai.NewRouter()
	if cfg.Anthropic.APIKey != "" {
		p, err := ai.NewAnthropicProvider(cfg.Anthropic.APIKey, ai.WithAnthropicModel(cfg.Anthropic.Model))
		if err != nil {
			return nil, fmt.Errorf("creating anthropic provider: %w", err)
		}
		router.Register("anthropic", p)
	}
	if cfg.Google.APIKey != "" {
		router.Register("google", ai.NewGoogleProvider(cfg.Google.APIKey, ai.WithGoogleModels(cfg.Google.Model, cfg.Google.ImageModel)))
	}
	return router, nil
}
