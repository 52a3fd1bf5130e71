package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/SAP-F-2025/evaluation-service/internal/config"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/evaluation-service/internal/seed"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
	"github.com/SAP-F-2025/evaluation-service/pkg"
)

func main() {
	catalogPath := flag.String("catalog", "cmd/seed/catalog.yaml", "path to the YAML seed catalog")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := utils.NewLoggerForEnvironment(cfg.Environment)

	file, err := os.Open(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer file.Close()

	catalog, err := seed.Parse(file)
	if err != nil {
		log.Fatal(err)
	}
	if err := catalog.Validate(validator.New()); err != nil {
		log.Fatalf("Invalid catalog: %v", err)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := pkg.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if _, err := seed.Apply(context.Background(), postgres.NewRepository(db), catalog, utils.ToSlogLogger(logger)); err != nil {
		logger.LogError(err, "Seeding failed")
		os.Exit(1)
	}
}
