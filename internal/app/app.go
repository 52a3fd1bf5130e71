package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/cache"
	"github.com/SAP-F-2025/evaluation-service/internal/config"
	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/handlers"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/evaluation-service/internal/services"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
	"github.com/SAP-F-2025/evaluation-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg      *config.Config
	logger   utils.Logger
	db       *gorm.DB
	redis    *redis.Client
	eventBus *config.EventBus
	listener *events.Listener
	server   *http.Server
}

func NewApp(cfg *config.Config, logger utils.Logger) (*App, error) {
	slogger := utils.ToSlogLogger(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	if err := pkg.Migrate(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	logger.Info("Database initialized")

	a := &App{cfg: cfg, logger: logger, db: db}

	eventBus, err := cfg.Events.CreateEventBus(slogger)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("event bus init failed: %w", err)
	}
	a.eventBus = eventBus

	reportCache := a.newReportCache()

	serviceManager := services.NewServiceManager(services.ServiceManagerConfig{
		Repository: postgres.NewRepository(db),
		Cache:      reportCache,
		Publisher:  eventBus.Publisher,
		Validator:  validator.New(),
		Logger:     slogger,
		Reports: services.ReportConfig{
			CacheTTL:       cfg.ReportCacheTTL,
			MaxSubmissions: cfg.ReportMaxSubmissions,
		},
	})

	if eventBus.Subscriber != nil {
		a.listener = events.NewListener(eventBus.Subscriber, cfg.Events.Topic, slogger)
		a.listener.On(serviceManager.Report().HandleEvent, events.AllEventTypes...)
	}

	auth := handlers.NewAuthMiddleware(cfg.Auth, logger)
	handlerManager := handlers.NewHandlerManager(serviceManager, auth, logger)
	router := handlers.NewRouter(handlerManager, cfg.CORSAllowedOrigins, logger)

	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// newReportCache picks Redis when reachable. Cached reports are only invalidated
// by the event listener, so without a subscriber caching is switched off.
func (a *App) newReportCache() cache.CacheService {
	if !a.cfg.CacheEnabled {
		a.logger.Info("Report cache disabled")
		return cache.NoopCache{}
	}
	if a.eventBus.Subscriber == nil {
		a.logger.Warn("Report cache disabled because events are off and nothing would invalidate it")
		return cache.NoopCache{}
	}

	client, err := pkg.NewRedisClient(a.cfg)
	if err != nil {
		a.logger.Warn("Redis unavailable, caching reports in process memory", "error", err)
		return cache.NewMemoryCache()
	}
	a.redis = client
	a.logger.Info("Redis cache connected")
	return cache.NewRedisCache(client, utils.ToSlogLogger(a.logger))
}

// Run serves HTTP and consumes events until SIGINT/SIGTERM
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listenerDone := make(chan struct{})
	if a.listener != nil {
		go func() {
			defer close(listenerDone)
			if err := a.listener.Run(ctx); err != nil {
				a.logger.LogError(err, "Event listener stopped")
			}
		}()
	} else {
		close(listenerDone)
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", "addr", a.server.Addr, "environment", a.cfg.Environment)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		a.logger.Info("Shutting down", "signal", sig.String())
	case err := <-serverErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.LogError(err, "HTTP server shutdown error")
	}

	cancel()
	select {
	case <-listenerDone:
	case <-shutdownCtx.Done():
		a.logger.Warn("Event listener did not stop before the shutdown deadline")
	}

	a.close()
	a.logger.Info("Shutdown complete")
	return runErr
}

func (a *App) close() {
	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			a.logger.LogError(err, "Event bus shutdown error")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.LogError(err, "Redis shutdown error")
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.logger.LogError(err, "Database shutdown error")
			}
		}
	}
}
