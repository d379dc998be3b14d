package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "autoone-backend/internal/api/http"
	"autoone-backend/internal/config"
	"autoone-backend/internal/logger"
	"autoone-backend/internal/repository/postgres"
	"autoone-backend/internal/security"
	"autoone-backend/internal/service"
	"autoone-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting AutoOne Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Storage
	docStorage, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.RootDir)
	if err != nil {
		logger.Error("Failed to initialize document storage", "error", err)
		log.Fatalf("Failed to initialize document storage: %v", err)
	}
	logger.Info("Document storage ready", "root_dir", cfg.Storage.RootDir)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	contractSvc := service.NewContractService(docStorage)
	rentalSvc := service.NewRentalService(store.RentalRepository)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.RentalRepository,
		store.UserRepository,
		contractSvc,
		emailSvc,
	)

	// Initialize HTTP handlers
	rentalHandler := httpapi.NewRentalHandler(rentalSvc, bookingSvc)
	bookingHandler := httpapi.NewBookingHandler(bookingSvc, contractSvc)
	filesHandler := httpapi.NewFilesHandler(docStorage)

	router := httpapi.NewRouter(rentalHandler, bookingHandler, filesHandler, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
