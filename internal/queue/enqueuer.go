/**
 * Queue Enqueuer - submits roster extraction jobs
 *
 * Used by the control-panel side of the system and by operational tooling
 * to push screenshot extraction work onto the queue the worker consumes.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Enqueuer submits extraction jobs to the Redis queue.
type Enqueuer struct {
	client    *asynq.Client
	queueName string
}

// NewEnqueuer creates an enqueuer bound to the given queue.
func NewEnqueuer(redisURL, queueName string) (*Enqueuer, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}
	if queueName == "" {
		return nil, fmt.Errorf("QueueName is required")
	}

	redisOpt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &Enqueuer{
		client:    asynq.NewClient(redisOpt),
		queueName: queueName,
	}, nil
}

// EnqueueExtract submits a roster extraction job and returns its job ID.
// A missing JobID is assigned; TeamID and ImageData are required.
func (e *Enqueuer) EnqueueExtract(ctx context.Context, payload ExtractJobPayload) (string, error) {
	if payload.TeamID == "" {
		return "", fmt.Errorf("teamId is required")
	}
	if len(payload.ImageData) == 0 {
		return "", fmt.Errorf("imageData is required")
	}
	if payload.JobID == "" {
		payload.JobID = uuid.New().String()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	task := asynq.NewTask(TypeRosterExtract, data)
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(e.queueName),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue extraction job: %w", err)
	}

	return payload.JobID, nil
}

// Close releases the queue client connection.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
