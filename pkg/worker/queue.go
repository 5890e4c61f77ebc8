// Package worker carries extraction jobs from the API to the background
// worker over a redis list. One job per asset; a per-asset lock keeps at
// most one extraction in flight even when re-extraction is requested twice.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	queueKey      = "recipenow:extraction:queue"
	lockKeyPrefix = "recipenow:extraction:lock:"
	lockTTL       = 10 * time.Minute
	popTimeout    = 5 * time.Second
)

// ExtractionJob is the unit of work pushed onto the queue.
type ExtractionJob struct {
	AssetID  string `json:"asset_id"`
	RecipeID string `json:"recipe_id,omitempty"`
}

type (
	Queue interface {
		// EnqueueExtraction pushes a job unless one is already in flight
		// for the asset. Returns whether the job was actually queued.
		EnqueueExtraction(ctx context.Context, job ExtractionJob) (bool, error)
	}

	redisQueue struct {
		client *redis.Client
	}
)

func NewQueue(client *redis.Client) Queue {
	return &redisQueue{client: client}
}

func (q *redisQueue) EnqueueExtraction(ctx context.Context, job ExtractionJob) (bool, error) {
	acquired, err := q.client.SetNX(ctx, lockKeyPrefix+job.AssetID, "1", lockTTL).Result()
	if err != nil {
		return false, err
	}
	if !acquired {
		return false, nil
	}

	payload, err := json.Marshal(job)
	if err != nil {
		q.client.Del(ctx, lockKeyPrefix+job.AssetID)
		return false, err
	}
	if err := q.client.LPush(ctx, queueKey, payload).Err(); err != nil {
		q.client.Del(ctx, lockKeyPrefix+job.AssetID)
		return false, err
	}
	return true, nil
}

// dequeue blocks until a job arrives or the pop timeout elapses. A nil job
// with a nil error means the timeout fired and the caller should poll again.
func (q *redisQueue) dequeue(ctx context.Context) (*ExtractionJob, error) {
	res, err := q.client.BRPop(ctx, popTimeout, queueKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// BRPop returns [key, value].
	var job ExtractionJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (q *redisQueue) releaseLock(ctx context.Context, assetID string) {
	q.client.Del(ctx, lockKeyPrefix+assetID)
}
