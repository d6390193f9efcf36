package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reel-radar/internal/apify"
	"reel-radar/internal/config"
	"reel-radar/internal/database"
	"reel-radar/internal/handlers"
	"reel-radar/internal/scraper"
	"reel-radar/internal/services"
	"reel-radar/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load application configuration
	cfg := loadAppConfig()

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Wire up the pipeline
	apifyClient := apify.NewClient(cfg.Apify.Token, os.Getenv("APIFY_BASE_URL"))
	fetcher := scraper.NewFetcher(apifyClient, cfg)
	scanService := services.NewScanService(database.DB, fetcher, cfg)
	accountsService := services.NewAccountsService(database.DB)

	// Initialize and start background workers
	workerService := worker.NewWorkerService(scanService, accountsService, cfg, rescanInterval())
	if err := workerService.Start(); err != nil {
		log.Fatal("Failed to start background workers:", err)
	}

	setupGracefulShutdown(workerService)
	setupServer(scanService, accountsService, workerService, cfg)
}

// loadAppConfig reads the YAML config, falling back to defaults when the file
// is absent (everything needed can come from the environment).
func loadAppConfig() *config.Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("No config file at %s, using defaults", path)
			return config.Default()
		}
		log.Fatal("Failed to load config:", err)
	}
	return cfg
}

func rescanInterval() time.Duration {
	if raw := os.Getenv("RESCAN_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
		log.Printf("Invalid RESCAN_INTERVAL %q, using default", os.Getenv("RESCAN_INTERVAL"))
	}
	return 6 * time.Hour
}

func setupGracefulShutdown(workerService *worker.WorkerService) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")

		workerService.Stop()
		database.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(scanService *services.ScanService, accountsService *services.AccountsService, workerService *worker.WorkerService, cfg *config.Config) {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	scanHandler := handlers.NewScanHandler(scanService, cfg)
	adminHandler := handlers.NewAdminHandler(accountsService)

	// Health check
	r.GET("/health", scanHandler.HealthCheck)

	// API routes
	api := r.Group("/api")
	{
		scans := api.Group("/scans")
		{
			scans.POST("", scanHandler.RunScan)
			scans.GET("", scanHandler.ListScans)
			scans.GET("/:id", scanHandler.GetScan)
		}
	}

	// Admin routes (password protected)
	admin := r.Group("/admin", adminHandler.AdminAuth())
	{
		admin.GET("/accounts", adminHandler.ListAccounts)
		admin.POST("/accounts", adminHandler.TrackAccount)
		admin.DELETE("/accounts/:username", adminHandler.UntrackAccount)
	}

	// Get port from environment or default to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
