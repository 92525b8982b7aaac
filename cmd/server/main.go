package main

import (
	"context"
	"time"

	"github.com/docflow/docflow/internal/api"
	v1 "github.com/docflow/docflow/internal/api/v1"
	"github.com/docflow/docflow/internal/cache"
	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/logger"
	"github.com/docflow/docflow/internal/postgres"
	"github.com/docflow/docflow/internal/repository"
	"github.com/docflow/docflow/internal/s3"
	"github.com/docflow/docflow/internal/service"
	"github.com/docflow/docflow/internal/types"
	"github.com/docflow/docflow/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// Scan storage
			s3.NewStorage,

			// Repositories
			repository.NewDocumentRepository,
			repository.NewStaffRegistry,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewDocumentService,
			service.NewStaleService,
			service.NewArchiveService,
			service.NewStaleMonitor,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	documentService service.DocumentService,
	staleService service.StaleService,
	archiveService service.ArchiveService,
) api.Handlers {
	return api.Handlers{
		Document: v1.NewDocumentHandler(documentService, logger),
		Stale:    v1.NewStaleHandler(staleService, logger),
		Archive:  v1.NewArchiveHandler(archiveService, logger),
		Health:   v1.NewHealthHandler(logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	monitor *service.StaleMonitor,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startStaleMonitor(lc, monitor, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeMonitor:
		startStaleMonitor(lc, monitor, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startStaleMonitor(
	lc fx.Lifecycle,
	monitor *service.StaleMonitor,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			monitor.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			monitor.Stop()
			return nil
		},
	})
}
