package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/catalog"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/config"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/controllers"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/jobs"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/routes"
)

func main() {
	// Initialize Structured Logger
	logger.Init()
	defer logger.Close()

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system env vars")
	}

	cfg, err := config.ReadConfig(config.GetEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	// Initialize DB
	database.InitDB(cfg)

	// Open the food reference catalog
	catalogPath := config.GetEnv("CATALOG_PATH", cfg.CatalogPath)
	if catalogPath == "" {
		catalogPath = "catalog.db"
	}
	store, err := catalog.Open(catalogPath)
	if err != nil {
		logger.Fatal("Failed to open food catalog", "path", catalogPath, "error", err)
	}
	defer store.Close()
	controllers.Catalog = store

	// Start background rescale worker
	jobs.GetWorker()

	// Setup Router
	r := routes.SetupRouter(cfg)

	port := config.GetEnv("PORT", cfg.Port)
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
