package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice-dashboard-backend/internal/config"
	"invoice-dashboard-backend/internal/database"
	"invoice-dashboard-backend/internal/fixtures"
	"invoice-dashboard-backend/internal/logging"
	"invoice-dashboard-backend/internal/metrics"
	"invoice-dashboard-backend/internal/routes"
	"invoice-dashboard-backend/internal/services/seed"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg := config.Load()
	level := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New("dashboard-api", level)

	set, err := fixtures.Load(cfg.FixturesPath)
	if err != nil {
		logger.Error("failed to load fixtures", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		logger.Warn("POSTGRES_URL is not set; seed routes will fail until it is configured")
	}

	connector := database.NewConnector(cfg.DSN(), func(string) (*gorm.DB, error) {
		return config.InitDB(cfg, logging.GormLogger(level))
	})
	defer connector.Close()

	m := metrics.New(prometheus.DefaultRegisterer)
	seedService := seed.New(connector, set, cfg.BcryptCost, logger, m)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(logger))
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, seedService, m, prometheus.DefaultGatherer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
		logger.Info("server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			connector.Close()
			os.Exit(1)
		}
	}
}
