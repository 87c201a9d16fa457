package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"invoice-dashboard-backend/internal/config"
	"invoice-dashboard-backend/internal/database"
	"invoice-dashboard-backend/internal/fixtures"
	"invoice-dashboard-backend/internal/logging"
	"invoice-dashboard-backend/internal/services/seed"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	status := flag.Bool("status", false, "print table row counts instead of seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg := config.Load()
	level := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewWithWriter(os.Stderr, "dashboard-seed", level)

	set, err := fixtures.Load(cfg.FixturesPath)
	if err != nil {
		logger.Error("failed to load fixtures", "error", err)
		os.Exit(1)
	}

	connector := database.NewConnector(cfg.DSN(), func(string) (*gorm.DB, error) {
		return config.InitDB(cfg, logging.GormLogger(level))
	})
	svc := seed.New(connector, set, cfg.BcryptCost, logger, nil)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var out any
	if *status {
		out, err = svc.Status(ctx)
	} else {
		out, err = svc.Run(ctx)
	}
	connector.Close()
	if err != nil {
		logger.Error("seed command failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("failed to write result", "error", err)
		os.Exit(1)
	}
}
