package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/AJ1732/ts-server/internal/blob"
	"github.com/AJ1732/ts-server/internal/config"
	"github.com/AJ1732/ts-server/internal/logger"
	"github.com/AJ1732/ts-server/internal/modules/admin"
	"github.com/AJ1732/ts-server/internal/modules/auth"
	"github.com/AJ1732/ts-server/internal/modules/tenant"
	"github.com/AJ1732/ts-server/internal/modules/user"
	"github.com/AJ1732/ts-server/internal/modules/warehouse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	log := logger.Default()

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.Postgres)
	if err != nil {
		log.WithError(err).Fatal("cannot open database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("cannot reach database")
	}
	log.Info("connected to database")

	for _, ensure := range []func(context.Context, *sql.DB) error{
		tenant.EnsureSchema,
		warehouse.EnsureSchema,
		user.EnsureSchema,
		admin.EnsureSchema,
	} {
		if err := ensure(ctx, db); err != nil {
			log.WithError(err).Fatal("cannot create schema")
		}
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("cannot initialize blob store")
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := cache.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, signed-url caching disabled")
			cache = nil
		}
	}

	tokens := auth.NewTokenService(cfg.JWTSecret)
	guard := auth.NewMiddleware(tokens)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(logger.Middleware)
	router.Use(middleware.Recoverer)

	// ── Tenants & onboarding ────────────────────────────────
	tenantRepo := tenant.NewPostgresRepository(db)
	tenantService := tenant.NewService(tenantRepo, blobs, tokens, cache)
	tenant.NewHandler(tenantService, guard).RegisterRoutes(router)

	// ── Warehouses ──────────────────────────────────────────
	warehouseRepo := warehouse.NewPostgresRepository(db)
	warehouseService := warehouse.NewService(warehouseRepo)
	warehouse.NewHandler(warehouseService, guard).RegisterRoutes(router)

	// ── Warehouse users ─────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, tokens)
	user.NewHandler(userService, guard).RegisterRoutes(router)

	// ── Platform admin ──────────────────────────────────────
	adminRepo := admin.NewPostgresRepository(db)
	adminService := admin.NewService(adminRepo, tokens)
	admin.NewHandler(adminService, tenantService, guard).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	log.WithField("port", cfg.Port).Info("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// newBlobStore picks the S3 driver when a bucket is configured and falls back
// to local disk otherwise.
func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	if cfg.AWSBucket != "" {
		return blob.NewS3(ctx, blob.S3Configuration{
			Region:    cfg.AWSRegion,
			Bucket:    cfg.AWSBucket,
			AccessID:  cfg.AWSAccessKeyID,
			AccessKey: cfg.AWSSecretAccessKey,
		})
	}
	return blob.NewLocal(cfg.BlobDir, "")
}
