/**
 * Score Sync Channel - live score state over Redis pub/sub
 *
 * The control panel publishes score state; scoreboard displays subscribe.
 * Every publish also writes a snapshot key so a display that connects
 * mid-match starts from the current state instead of waiting for the next
 * update. The same channel object publishes extraction job events for UI
 * streaming.
 */

package scoreboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/courtside/scoreboard-worker/internal/logging"
)

const (
	scoreChannel     = "scoreboard:score"
	scoreSnapshotKey = "scoreboard:score:current"
	jobEventChannel  = "roster:jobs:events"
)

// ScoreState is the wire shape the controller publishes and displays
// consume.
type ScoreState struct {
	Team1Name  string `json:"team1Name"`
	Team2Name  string `json:"team2Name"`
	Team1Score int    `json:"team1Score"`
	Team2Score int    `json:"team2Score"`
	Team1Color string `json:"team1Color"`
	Team2Color string `json:"team2Color"`
	Team1Sets  int    `json:"team1Sets"`
	Team2Sets  int    `json:"team2Sets"`
}

// Channel is a Redis-backed score sync channel.
type Channel struct {
	client *redis.Client
	log    *logging.Logger
}

// NewChannel connects to Redis at redisURL and verifies the connection.
func NewChannel(redisURL string) (*Channel, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Channel{
		client: client,
		log:    logging.NewLogger("scoreboard"),
	}, nil
}

// Publish broadcasts a score state and stores it as the current snapshot.
func (c *Channel) Publish(ctx context.Context, state ScoreState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal score state: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, scoreSnapshotKey, payload, 0)
	pipe.Publish(ctx, scoreChannel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish score state: %w", err)
	}
	return nil
}

// Current returns the latest published score state, or nil when no state
// has been published yet.
func (c *Channel) Current(ctx context.Context) (*ScoreState, error) {
	payload, err := c.client.Get(ctx, scoreSnapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read score snapshot: %w", err)
	}

	var state ScoreState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score snapshot: %w", err)
	}
	return &state, nil
}

// Subscribe delivers score states as they are published until ctx is
// cancelled. Undecodable messages are logged and skipped.
func (c *Channel) Subscribe(ctx context.Context) (<-chan ScoreState, error) {
	sub := c.client.Subscribe(ctx, scoreChannel)

	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to score channel: %w", err)
	}

	out := make(chan ScoreState)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var state ScoreState
				if err := json.Unmarshal([]byte(msg.Payload), &state); err != nil {
					c.log.Warn("dropping undecodable score message", "error", err)
					continue
				}
				select {
				case out <- state:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// PublishJobEvent broadcasts an extraction job lifecycle event
// (job:processing, job:progress, job:completed, job:failed) for UI
// streaming. Event delivery is best-effort and never fails the job.
func (c *Channel) PublishJobEvent(ctx context.Context, jobID, event string, fields map[string]interface{}) {
	payload := map[string]interface{}{
		"event":     event,
		"jobId":     jobID,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	for k, v := range fields {
		payload[k] = v
	}

	data, err := json.Marshal(payload)
	if err != nil {
		c.log.Warn("failed to marshal job event", "jobId", jobID, "event", event, "error", err)
		return
	}
	if err := c.client.Publish(ctx, jobEventChannel, data).Err(); err != nil {
		c.log.Warn("failed to publish job event", "jobId", jobID, "event", event, "error", err)
	}
}

// Close releases the Redis connection.
func (c *Channel) Close() error {
	return c.client.Close()
}
