package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/rutdashboard/rut-dashboard-api/src/config"
	"github.com/rutdashboard/rut-dashboard-api/src/database"
	"github.com/rutdashboard/rut-dashboard-api/src/handlers"
	"github.com/rutdashboard/rut-dashboard-api/src/logging"
	"github.com/rutdashboard/rut-dashboard-api/src/middleware"
	"github.com/rutdashboard/rut-dashboard-api/src/repositories"
	"github.com/rutdashboard/rut-dashboard-api/src/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logging
	logging.Setup(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
	})

	log.Info().
		Int("port", cfg.Port).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("starting server")

	if cfg.JWTSecretGenerated {
		log.Warn().Msg("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	log.Info().Msg("database connected")

	// Initialize services
	tokenService, err := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}
	log.Info().Dur("token_expires_in", tokenService.ExpiresIn()).Msg("token service initialized")

	adminService := services.NewAdminService(repositories.NewAdminRepository(db), tokenService)
	resultService := services.NewRutResultService(repositories.NewRutResultRepository(db))
	rutClient := services.NewRutClient(services.RutClientConfig{
		URL:     cfg.ExternalRutAPIURL,
		Token:   cfg.ExternalAPIToken,
		Timeout: cfg.ExternalAPITimeout,
	})
	processService := services.NewRutProcessService(rutClient, resultService)

	// Seed the default super admin on first run
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	created, err := adminService.EnsureSuperAdmin(ctx, services.CreateAdminInput{
		Name:     cfg.DefaultAdminName,
		Email:    cfg.DefaultAdminEmail,
		Password: cfg.DefaultAdminPassword,
	})
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("failed to seed default super admin")
	} else if created {
		log.Info().Str("email", cfg.DefaultAdminEmail).Msg("default super admin created")
	}

	// Create Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	responder := handlers.Responder{ExposeErrors: cfg.IsDevelopment()}

	// Add middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(responder.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes := handlers.Routes{
		Tokens:         tokenService,
		Admins:         handlers.NewAdminHandler(adminService, responder),
		Process:        handlers.NewProcessRutHandler(processService, responder),
		Results:        handlers.NewRutResultHandler(resultService, responder),
		Health:         handlers.NewHealthHandler(db, cfg.Environment),
		LoginRateLimit: cfg.LoginRateLimitPerMinute,
	}
	if cfg.IsDevelopment() {
		routes.Simulator = handlers.NewSimulatorHandler(time.Second)
		log.Info().Msg("external service simulator enabled at /api/v1/test/process-rut")
	}
	routes.Register(router)

	// Create HTTP server with timeouts (G112: protect from Slowloris attack)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.ExternalAPITimeout + 30*time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shut down successfully")
}
