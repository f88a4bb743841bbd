/**
 * Queue Consumer for the roster extraction worker
 *
 * Consumes roster:extract jobs from the Redis-backed Asynq queue, runs the
 * extraction pipeline, applies the partial-fill policy to the team lineup,
 * and records job status. Transient failures retry with capped exponential
 * backoff; terminal pipeline outcomes (undecodable image, no names found)
 * skip retry because repeating the identical call cannot help.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/courtside/scoreboard-worker/internal/errors"
	"github.com/courtside/scoreboard-worker/internal/extract"
	"github.com/courtside/scoreboard-worker/internal/logging"
	"github.com/courtside/scoreboard-worker/internal/roster"
	"github.com/courtside/scoreboard-worker/internal/scoreboard"
)

// TypeRosterExtract is the task type for roster name extraction jobs.
const TypeRosterExtract = "roster:extract"

// ExtractJobPayload is the task payload submitted by the control panel.
// ImageData is the raw screenshot bytes (base64 on the wire via JSON).
type ExtractJobPayload struct {
	JobID      string `json:"jobId"`
	TeamID     string `json:"teamId"`
	Filename   string `json:"filename,omitempty"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
	ImageData  []byte `json:"imageData"`
}

// Consumer handles extraction job consumption from the Redis queue.
type Consumer struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	extractor *extract.Extractor
	store     *roster.Store
	events    *scoreboard.Channel
	config    *ConsumerConfig
	log       *logging.Logger
}

// ConsumerConfig holds consumer configuration.
type ConsumerConfig struct {
	RedisURL          string
	QueueName         string
	Concurrency       int
	ExtractionTimeout time.Duration // per-job deadline (default: 2 minutes)
	MaxImageSize      int64
	RosterSlots       int
	Extractor         *extract.Extractor
	Store             *roster.Store
	Events            *scoreboard.Channel
}

// NewConsumer creates a new queue consumer.
func NewConsumer(cfg *ConsumerConfig) (*Consumer, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}
	if cfg.QueueName == "" {
		return nil, fmt.Errorf("QueueName is required")
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("Extractor is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("Store is required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.RosterSlots <= 0 {
		cfg.RosterSlots = 7
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	log := logging.NewLogger("queue")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				cfg.QueueName: 10, // Priority 10 for the extraction queue
				"default":     1,  // Priority 1 for fallback
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				// Exponential backoff: 5s, 10s, 20s, capped at 60s
				delay := time.Duration(5*(1<<uint(n))) * time.Second
				if delay > 60*time.Second {
					delay = 60 * time.Second
				}
				return delay
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error("task processing error",
					"type", task.Type(),
					"error", err)
			}),
		},
	)

	mux := asynq.NewServeMux()

	consumer := &Consumer{
		server:    server,
		mux:       mux,
		extractor: cfg.Extractor,
		store:     cfg.Store,
		events:    cfg.Events,
		config:    cfg,
		log:       log,
	}

	mux.HandleFunc(TypeRosterExtract, consumer.handleExtract)

	return consumer, nil
}

// Start starts the queue consumer.
func (c *Consumer) Start() error {
	c.log.Info("starting queue consumer",
		"concurrency", c.config.Concurrency,
		"queue", c.config.QueueName)

	go func() {
		if err := c.server.Run(c.mux); err != nil {
			c.log.Error("queue consumer stopped", "error", err)
		}
	}()

	return nil
}

// Stop stops the queue consumer gracefully.
func (c *Consumer) Stop() {
	c.log.Info("stopping queue consumer")
	c.server.Shutdown()
}

// handleExtract processes one roster extraction job.
func (c *Consumer) handleExtract(ctx context.Context, task *asynq.Task) error {
	startTime := time.Now()

	var payload ExtractJobPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal job payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.JobID == "" {
		return fmt.Errorf("job payload missing jobId: %w", asynq.SkipRetry)
	}
	if len(payload.ImageData) == 0 {
		c.failJob(ctx, &payload, errors.NewPreprocessFailedError(fmt.Errorf("empty image payload")), startTime)
		return fmt.Errorf("job %s has empty image payload: %w", payload.JobID, asynq.SkipRetry)
	}
	if c.config.MaxImageSize > 0 && int64(len(payload.ImageData)) > c.config.MaxImageSize {
		c.failJob(ctx, &payload, errors.NewPreprocessFailedError(
			fmt.Errorf("image is %d bytes, limit %d", len(payload.ImageData), c.config.MaxImageSize)), startTime)
		return fmt.Errorf("job %s image exceeds size limit: %w", payload.JobID, asynq.SkipRetry)
	}

	maxPlayers := payload.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = c.config.RosterSlots
	}

	c.log.Info("processing extraction job",
		"jobId", payload.JobID,
		"teamId", payload.TeamID,
		"filename", payload.Filename,
		"imageBytes", len(payload.ImageData),
		"maxPlayers", maxPlayers)

	c.updateStatus(ctx, &payload, "processing", 0, 0, nil)
	c.publishEvent(ctx, payload.JobID, "job:processing", nil)

	timeout := 2 * time.Minute
	if c.config.ExtractionTimeout > 0 {
		timeout = c.config.ExtractionTimeout
	}
	extractCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	names, err := c.extractor.Extract(extractCtx, payload.ImageData, maxPlayers, c.progressReporter(ctx, &payload))
	duration := time.Since(startTime)

	if err != nil {
		if extractCtx.Err() == context.DeadlineExceeded {
			timeoutErr := errors.NewExtractionTimeoutError(payload.JobID, timeout, err)
			c.failJob(ctx, &payload, timeoutErr, startTime)
			return fmt.Errorf("extraction timeout: %w", timeoutErr)
		}

		c.failJob(ctx, &payload, err, startTime)

		// Terminal pipeline outcomes: the same image will fail the same
		// way, so retrying burns queue capacity for nothing.
		if errors.IsCode(err, errors.ErrorNoNamesFound) || errors.IsCode(err, errors.ErrorPreprocessFailed) {
			return fmt.Errorf("extraction failed terminally: %v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("extraction failed: %w", err)
	}

	if payload.TeamID != "" {
		if _, err := c.store.ApplyNames(ctx, payload.TeamID, names, maxPlayers); err != nil {
			storageErr := errors.NewStorageFailedError(payload.JobID, err)
			c.failJob(ctx, &payload, storageErr, startTime)
			return fmt.Errorf("failed to apply names to team %s: %w", payload.TeamID, storageErr)
		}
	}

	c.updateStatus(ctx, &payload, "completed", 100, len(names), map[string]interface{}{
		"names":    names,
		"filename": payload.Filename,
	})
	c.publishEvent(ctx, payload.JobID, "job:completed", map[string]interface{}{
		"namesFound": len(names),
		"names":      names,
	})

	c.log.Info("extraction job completed",
		"jobId", payload.JobID,
		"namesFound", len(names),
		"duration", duration)

	return nil
}

// progressReporter persists pipeline progress and streams it to the UI.
// Reporting is best-effort; a failed update never aborts the pipeline.
func (c *Consumer) progressReporter(ctx context.Context, payload *ExtractJobPayload) extract.ProgressFunc {
	lastPersisted := -1
	return func(percent int) {
		// Persist at most once per 10% step to keep write volume down.
		if percent/10 == lastPersisted/10 && percent != 100 {
			return
		}
		lastPersisted = percent

		c.updateStatus(ctx, payload, "processing", percent, 0, nil)
		c.publishEvent(ctx, payload.JobID, "job:progress", map[string]interface{}{
			"progress": percent,
		})
	}
}

func (c *Consumer) failJob(ctx context.Context, payload *ExtractJobPayload, cause error, startTime time.Time) {
	update := &roster.JobUpdate{
		JobID:            payload.JobID,
		TeamID:           payload.TeamID,
		Status:           "failed",
		Progress:         100,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	}

	var extractionErr *errors.ExtractionError
	if e, ok := cause.(*errors.ExtractionError); ok {
		extractionErr = e
	}
	if extractionErr != nil {
		update.ErrorCode = string(extractionErr.Code)
		update.ErrorMessage = extractionErr.Message
		update.Metadata = extractionErr.ToMap()
	} else {
		update.ErrorMessage = cause.Error()
	}

	if err := c.store.UpdateJobStatus(ctx, update); err != nil {
		c.log.Warn("failed to record job failure", "jobId", payload.JobID, "error", err)
	}
	c.publishEvent(ctx, payload.JobID, "job:failed", map[string]interface{}{
		"errorCode": update.ErrorCode,
		"error":     update.ErrorMessage,
	})
}

func (c *Consumer) updateStatus(ctx context.Context, payload *ExtractJobPayload, status string, progress, namesFound int, metadata map[string]interface{}) {
	err := c.store.UpdateJobStatus(ctx, &roster.JobUpdate{
		JobID:      payload.JobID,
		TeamID:     payload.TeamID,
		Status:     status,
		Progress:   progress,
		NamesFound: namesFound,
		Metadata:   metadata,
	})
	if err != nil {
		c.log.Warn("failed to update job status",
			"jobId", payload.JobID,
			"status", status,
			"error", err)
	}
}

func (c *Consumer) publishEvent(ctx context.Context, jobID, event string, fields map[string]interface{}) {
	if c.events == nil {
		return
	}
	c.events.PublishJobEvent(ctx, jobID, event, fields)
}
