package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/andrifm/depreciation-engine/internal/config"
	"github.com/andrifm/depreciation-engine/internal/depreciation"
	"github.com/andrifm/depreciation-engine/internal/repository"
	"github.com/andrifm/depreciation-engine/internal/service"
)

func main() {
	log.Println("Starting depreciation scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	assetRepo := repository.NewAssetRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	depreciationService := service.NewDepreciationService(assetRepo, entryRepo, redisClient, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Post the previous calendar month for every active asset shortly after
	// month rollover. Re-runs are safe: already-posted periods are skipped.
	_, err = c.AddFunc(cfg.Scheduler.CronSpec, func() {
		runMonthlyDepreciation(depreciationService, location)
	})
	if err != nil {
		log.Fatalf("Error scheduling monthly depreciation job: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func runMonthlyDepreciation(svc *service.DepreciationService, location *time.Location) {
	year, month := depreciation.PreviousPeriod(time.Now().In(location))
	log.Printf("Running depreciation for period %d-%02d...", year, month)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	results, err := svc.RunPeriodAll(ctx, year, month)
	if err != nil {
		log.Printf("Period run failed: %v", err)
		return
	}

	var posted, skipped int
	for _, result := range results {
		if result.Posted {
			posted++
			continue
		}
		skipped++
		log.Printf("Asset %s skipped for %d-%02d: %s", result.AssetID, year, month, result.Reason)
	}

	log.Printf("Period %d-%02d complete: %d posted, %d skipped", year, month, posted, skipped)
}
