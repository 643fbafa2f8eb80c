package common

import (
	"context"
	"log"
	"strings"

	"indexpool-go/internal/database"
	"indexpool-go/internal/indexpool"
	"indexpool-go/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService *database.Service
	Venues    *Venues
	Registry  *indexpool.Registry
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the database, loads the venues file and wires the
// allow-listed bridges into a portfolio registry.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	zap.L().Info("Loading venues", zap.String("file", cfg.Registry.VenuesFile))
	venues, err := LoadVenues(cfg.Registry.VenuesFile)
	if err != nil {
		return nil, err
	}

	bridges, err := venues.BuildBridges()
	if err != nil {
		return nil, err
	}

	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	registry, err := indexpool.New(dbService, bridges, cfg.Registry)
	if err != nil {
		dbService.Close()
		return nil, err
	}
	zap.L().Info("Using portfolio registry",
		zap.String("address", registry.Address().Hex()),
		zap.Int("bridges", len(bridges.Addresses())))

	return &Services{
		DbService: dbService,
		Venues:    venues,
		Registry:  registry,
	}, nil
}

// InitializeDatabaseOnly initializes just the database service without loading venues
// Useful for schema creation and raw ledger inspection
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
