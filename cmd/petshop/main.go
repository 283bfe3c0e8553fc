// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/olegiv/petshop-go/internal/auth"
	"github.com/olegiv/petshop-go/internal/config"
	"github.com/olegiv/petshop-go/internal/handler"
	"github.com/olegiv/petshop-go/internal/handler/api"
	"github.com/olegiv/petshop-go/internal/logging"
	"github.com/olegiv/petshop-go/internal/middleware"
	"github.com/olegiv/petshop-go/internal/service"
	"github.com/olegiv/petshop-go/internal/storage"
	"github.com/olegiv/petshop-go/internal/store"
	"github.com/olegiv/petshop-go/internal/version"
)

// uploadsCacheAge is the max-age of locally served uploads. Object keys are
// unique, so a stored file never changes.
const uploadsCacheAge = 365 * 24 * 60 * 60

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	seedDemo := flag.Bool("seed", false, "Seed the demo catalog on an empty database")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "petshop - multilingual pet shop catalog API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PETSHOP_JWT_SECRET     Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PETSHOP_DB_DRIVER      sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PETSHOP_DB_DSN         Database path or DSN (default: ./data/petshop.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PETSHOP_SERVER_PORT    Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PETSHOP_ENV            Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PETSHOP_STORAGE        Upload storage: local|s3 (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PETSHOP_S3_BUCKET      Bucket for s3 storage\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PETSHOP_CORS_ORIGINS   Comma-separated allowed origins (default: *)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(version.Current().String())
		os.Exit(0)
	}

	if err := run(*seedDemo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(seedDemo bool) error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(logging.New(os.Stdout, cfg.SlogLevel(), cfg.LogFormat))
	info := version.Current()
	slog.Info("starting petshop", "version", info.Version, "commit", info.GitCommit, "env", cfg.Env)

	if cfg.DBDriver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	slog.Info("initializing database", "driver", cfg.DBDriver)
	db, err := store.NewDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	ctx := context.Background()

	slog.Info("running database migrations")
	if err := store.Migrate(ctx, db, cfg.DBDriver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if err := store.Seed(ctx, db, store.AdminSeed{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	catalog := service.NewCatalogService(db)
	if cfg.SeedDemo || seedDemo {
		if err := service.SeedCatalog(ctx, catalog); err != nil {
			return fmt.Errorf("seeding demo catalog: %w", err)
		}
	}

	uploader, err := newUploader(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing upload storage: %w", err)
	}

	protection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer protection.Stop()

	r := newRouter(cfg, db, routerDeps{
		catalog:    catalog,
		users:      service.NewUserService(db),
		tokens:     auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer),
		protection: protection,
		uploader:   uploader,
		version:    info.Version,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for image uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newUploader returns the configured upload backend.
func newUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, error) {
	if cfg.UseS3() {
		up, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
			PublicURL:       cfg.S3PublicURL,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("upload storage ready", "backend", "s3", "bucket", cfg.S3Bucket)
		return up, nil
	}

	up, err := storage.NewLocalUploader(cfg.UploadsDir, cfg.UploadsBaseURL)
	if err != nil {
		return nil, err
	}
	slog.Info("upload storage ready", "backend", "local", "dir", cfg.UploadsDir)
	return up, nil
}

type routerDeps struct {
	catalog    *service.CatalogService
	users      *service.UserService
	tokens     *auth.Tokens
	protection *middleware.LoginProtection
	uploader   storage.Uploader
	version    string
}

// newRouter assembles the HTTP surface: the versioned API, health checks and,
// with local storage, the uploaded files.
func newRouter(cfg *config.Config, db *sql.DB, deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Language", "Retry-After", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RecoverJSON)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.StripTrailingSlash)

	uploadsDir := ""
	if !cfg.UseS3() {
		uploadsDir = cfg.UploadsDir
	}
	health := handler.NewHealthHandler(db, uploadsDir, deps.version)
	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	apiHandler := api.NewHandler(api.Options{
		Catalog:        deps.catalog,
		Users:          deps.users,
		Tokens:         deps.tokens,
		Protection:     deps.protection,
		Uploader:       deps.uploader,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})
	apiLimiter := middleware.NewGlobalRateLimiter("api", cfg.RateLimit, cfg.RateBurst)
	authLimiter := middleware.NewGlobalRateLimiter("auth", cfg.AuthRateLimit, cfg.AuthRateBurst)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiLimiter.Middleware())
		r.Mount("/", apiHandler.Routes(authLimiter.Middleware()))
	})

	if uploadsDir != "" {
		r.Handle("/uploads/*", middleware.UploadsHandler("/uploads", uploadsDir, uploadsCacheAge))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusNotFound, "not_found", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	return r
}
