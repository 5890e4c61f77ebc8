package main

import (
	"context"
	"log"
	"os/signal"
	"strconv"
	"syscall"

	"recipenow-backend/cmd/config"
	"recipenow-backend/internal/utils"
	"recipenow-backend/internal/utils/storage"
	"recipenow-backend/pkg/extraction"
	"recipenow-backend/pkg/worker"

	"github.com/go-redis/redis/v8"
)

const defaultMinConfidence = 0.55

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("error connecting database: %v", err)
	}

	appLogger := utils.NewLogger()
	defer appLogger.Sync()

	minConfidence := defaultMinConfidence
	if raw := utils.GetConfig("EXTRACTION_MIN_CONFIDENCE"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 && parsed <= 1 {
			minConfidence = parsed
		}
	}

	s3 := storage.NewAwsS3()
	extractionRepository := extraction.NewExtractionRepository(db)
	vision := extraction.NewGeminiVision()
	extractionService := extraction.NewExtractionService(extractionRepository, vision, s3, appLogger, minConfidence)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     utils.GetConfig("REDIS_ADDR"),
		Password: utils.GetConfig("REDIS_PASSWORD"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.NewWorker(redisClient, extractionService, appLogger)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("worker stopped: %v", err)
	}
}
