package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/config"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/handler"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/metrics"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/middleware"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/repository/postgres"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/repository/sqlite"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/service"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown LOG_LEVEL, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Open storage and run migrations
	repos, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Failed to open storage")
	}
	defer closeStore()
	log.Info().Str("driver", cfg.StorageDriver).Msg("Storage ready")

	m := metrics.New()

	// WebSocket hub
	hub := websocket.NewHub()
	hub.OnClientCountChange(m.SetWebSocketClients)

	// Initialize services
	profileService := service.NewProfileService(repos.profiles, repos.bills, repos.templates, repos.settings)
	billService := service.NewBillService(repos.bills)
	templateService := service.NewTemplateService(repos.templates, repos.bills)
	balanceService := service.NewBalanceService(repos.bills, repos.settings)
	analyticsService := service.NewAnalyticsService(repos.bills)
	categoryService := service.NewCategoryService(repos.settings)
	reminderService := service.NewReminderService(repos.bills)

	profileService.SetEventPublisher(hub)
	billService.SetEventPublisher(hub)
	templateService.SetEventPublisher(hub)
	templateService.SetMetrics(m)
	balanceService.SetEventPublisher(hub)

	defaultProfile, err := profileService.EnsureDefaultProfile(cfg.DefaultProfileName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create default profile")
	}
	log.Info().Int32("profile_id", defaultProfile.ID).Str("name", defaultProfile.Name).Msg("Default profile ready")

	// Reminder worker
	reminderWorker := service.NewReminderWorker(
		reminderService,
		repos.profiles,
		hub,
		log.Logger,
		service.ReminderWorkerConfig{Interval: cfg.ReminderInterval},
	)
	reminderWorker.SetMetrics(m)

	// Initialize handlers
	handlers := handler.Handlers{
		Bill:      handler.NewBillHandler(billService),
		Template:  handler.NewTemplateHandler(templateService),
		Balance:   handler.NewBalanceHandler(balanceService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Profile:   handler.NewProfileHandler(profileService),
		Category:  handler.NewCategoryHandler(categoryService),
		Reminder:  handler.NewReminderHandler(reminderService),
		WebSocket: handler.NewWebSocketHandler(hub, profileService, reminderService, cfg.CORSOrigins),
	}

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.ProfileHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	e.Use(m.Middleware())

	// Health and metrics stay outside the rate limiter
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	// Register API routes
	handler.RegisterRoutes(e, middleware.ProfileMiddleware(profileService), handlers, middleware.RateLimitMiddleware(rateLimiter))

	// Start background worker
	workerCtx, stopWorker := context.WithCancel(context.Background())
	reminderWorker.Start(workerCtx)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	reminderWorker.Stop()
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

type repositories struct {
	bills     domain.BillRepository
	templates domain.TemplateRepository
	profiles  domain.ProfileRepository
	settings  domain.SettingRepository
}

// openStore migrates and opens the configured storage driver
func openStore(cfg *config.Config) (*repositories, func(), error) {
	if cfg.StorageDriver == config.DriverPostgres {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		pool, err := postgres.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return &repositories{
			bills:     postgres.NewBillRepository(pool),
			templates: postgres.NewTemplateRepository(pool),
			profiles:  postgres.NewProfileRepository(pool),
			settings:  postgres.NewSettingRepository(pool),
		}, pool.Close, nil
	}

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}
	return &repositories{
		bills:     sqlite.NewBillRepository(db),
		templates: sqlite.NewTemplateRepository(db),
		profiles:  sqlite.NewProfileRepository(db),
		settings:  sqlite.NewSettingRepository(db),
	}, closeDB, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("profile_id", req.Header.Get(middleware.ProfileHeader)).
				Msg("request")

			return nil
		}
	}
}
