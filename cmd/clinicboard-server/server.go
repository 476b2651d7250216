package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/config"
	"github.com/clinicboard/clinicboard/internal/domain/clinical"
	"github.com/clinicboard/clinicboard/internal/domain/dashboard"
	"github.com/clinicboard/clinicboard/internal/domain/documents"
	"github.com/clinicboard/clinicboard/internal/domain/identity"
	"github.com/clinicboard/clinicboard/internal/domain/inbox"
	"github.com/clinicboard/clinicboard/internal/domain/patient"
	"github.com/clinicboard/clinicboard/internal/domain/scheduling"
	"github.com/clinicboard/clinicboard/internal/domain/task"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/internal/platform/blobstore"
	"github.com/clinicboard/clinicboard/internal/platform/db"
	"github.com/clinicboard/clinicboard/internal/platform/logging"
	"github.com/clinicboard/clinicboard/internal/platform/middleware"
	"github.com/clinicboard/clinicboard/pkg/result"
)

const version = "0.1.0"

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:         cfg.LogLevel,
		Development:   cfg.IsDev(),
		File:          cfg.LogFile,
		FileMaxSizeMB: cfg.LogFileMaxSizeMB,
		FileBackups:   cfg.LogFileMaxBackups,
		FileMaxAge:    cfg.LogFileMaxAgeDays,
	})

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	blobs, err := newBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialise document storage")
		return err
	}

	e := newServer(cfg, logger, pool, blobs)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newBlobStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (blobstore.BlobStore, error) {
	if !cfg.BlobStoreEnabled() {
		logger.Warn().Msg("MINIO_ENDPOINT not set, documents are kept in memory")
		return blobstore.NewMemoryStore(), nil
	}
	store, err := blobstore.NewMinioStore(blobstore.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	logger.Info().Str("bucket", cfg.MinioBucket).Msg("document storage ready")
	return store, nil
}

func newServer(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool, blobs blobstore.BlobStore) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = result.HTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", auth.HeaderUserID, auth.HeaderUserRole},
	}))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit, cfg.UploadBodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware(tokenConfig(cfg)))
	} else {
		e.Use(auth.JWTMiddleware(tokenConfig(cfg)))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.Audit(logger))

	identitySvc := identity.NewService(identity.NewUserRepoPG(pool))

	patientSvc := patient.NewService(
		patient.NewPatientRepoPG(pool),
		patient.NewHistoryRepoPG(pool),
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return db.RunInTx(ctx, pool, fn)
		},
	)
	patientSvc.SetBlobStore(blobs)

	schedulingSvc := scheduling.NewService(scheduling.NewAppointmentRepoPG(pool), patientSvc, identitySvc)
	inboxSvc := inbox.NewService(inbox.NewMessageRepoPG(pool), identitySvc)
	taskSvc := task.NewService(task.NewTaskRepoPG(pool), identitySvc)
	clinicalSvc := clinical.NewService(clinical.NewNoteRepoPG(pool), patientSvc, identitySvc)
	documentsSvc := documents.NewService(documents.NewDocumentRepoPG(pool), blobs, patientSvc)
	dashboardSvc := dashboard.NewService(patientSvc, schedulingSvc, identitySvc)

	identity.NewHandler(identitySvc).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(apiV1)
	inbox.NewHandler(inboxSvc).RegisterRoutes(apiV1)
	task.NewHandler(taskSvc).RegisterRoutes(apiV1)
	clinical.NewHandler(clinicalSvc).RegisterRoutes(apiV1)
	documents.NewHandler(documentsSvc).RegisterRoutes(apiV1)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(apiV1)

	return e
}
