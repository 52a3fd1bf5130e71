package main

import (
	"log"

	"github.com/SAP-F-2025/evaluation-service/internal/app"
	"github.com/SAP-F-2025/evaluation-service/internal/config"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.NewLoggerForEnvironment(cfg.Environment)

	application, err := app.NewApp(cfg, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize application")
		log.Fatal(err)
	}

	if err := application.Run(); err != nil {
		logger.LogError(err, "Application exited with error")
		log.Fatal(err)
	}
}
