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

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/andrifm/depreciation-engine/internal/config"
	"github.com/andrifm/depreciation-engine/internal/handler"
	"github.com/andrifm/depreciation-engine/internal/repository"
	"github.com/andrifm/depreciation-engine/internal/service"
	"github.com/andrifm/depreciation-engine/pkg/response"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	assetRepo := repository.NewAssetRepository(db)
	entryRepo := repository.NewEntryRepository(db)

	// Initialize service and handlers
	depreciationService := service.NewDepreciationService(assetRepo, entryRepo, redisClient, cfg)
	assetHandler := handler.NewAssetHandler(depreciationService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(assetHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(assetHandler *handler.AssetHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/assets", assetHandler.RegisterAsset).Methods("POST")
	api.HandleFunc("/assets/{assetId}", assetHandler.GetAsset).Methods("GET")
	api.HandleFunc("/assets/{assetId}/book-value", assetHandler.GetBookValue).Methods("GET")
	api.HandleFunc("/assets/{assetId}/schedule", assetHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/assets/{assetId}/entries", assetHandler.GetEntries).Methods("GET")
	api.HandleFunc("/assets/{assetId}/depreciate", assetHandler.Depreciate).Methods("POST")
	api.HandleFunc("/assets/{assetId}/dispose", assetHandler.Dispose).Methods("POST")
	api.HandleFunc("/periods/run", assetHandler.RunPeriodAll).Methods("POST")

	return router
}
