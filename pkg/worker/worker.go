package worker

import (
	"context"

	"recipenow-backend/pkg/extraction"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Worker consumes extraction jobs and runs them to completion. Job failures
// are logged and the loop keeps going; only context cancellation stops it.
type Worker struct {
	queue      *redisQueue
	extraction extraction.ExtractionService
	log        *zap.Logger
}

func NewWorker(client *redis.Client, extractionService extraction.ExtractionService, log *zap.Logger) *Worker {
	return &Worker{
		queue:      &redisQueue{client: client},
		extraction: extractionService,
		log:        log,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("extraction worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("extraction worker stopping")
			return ctx.Err()
		default:
		}

		job, err := w.queue.dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Error("failed to pop extraction job", zap.Error(err))
			continue
		}
		if job == nil {
			continue
		}

		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *ExtractionJob) {
	defer w.queue.releaseLock(ctx, job.AssetID)

	recipeID, err := w.extraction.Run(ctx, job.AssetID, job.RecipeID)
	if err != nil {
		w.log.Error("extraction job failed",
			zap.String("asset_id", job.AssetID),
			zap.Error(err))
		return
	}
	w.log.Info("extraction job completed",
		zap.String("asset_id", job.AssetID),
		zap.String("recipe_id", recipeID))
}
