package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user_api/internal/config"
	"user_api/internal/handler"
	"user_api/internal/metrics"
	"user_api/internal/repository"
	"user_api/internal/service"
	"user_api/internal/utils"
	"user_api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Configuration ---
	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.New(logger.Options{})
		log.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction()})
	if envErr != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Wiring ---
	jwtUtil := utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.Lifetime)
	userRepo := repository.NewUserRepository(dbPool, m)
	userService := service.NewUserService(userRepo, jwtUtil, m, log)

	router := handler.NewRouter(handler.RouterDeps{
		Users:     userService,
		Validator: jwtUtil,
		Metrics:   m,
		Gatherer:  reg,
		DB:        dbPool,
		Log:       log,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Dur("token_lifetime", jwtUtil.Lifetime()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exiting")
}
