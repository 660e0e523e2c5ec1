package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	EventResumeAnalyzed       = "resume.analyzed"
	EventJobSourceCreated     = "job_source.created"
	EventJobSourceDeleted     = "job_source.deleted"
	EventCoverLetterGenerated = "cover_letter.generated"
	EventJobOffersIngested    = "job_offers.ingested"
	EventJobLoadTriggered     = "job_load.triggered"
)

type Event struct {
	Type       string                 `json:"type"`
	Email      string                 `json:"email,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Publisher announces domain events after the state change has committed.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type redisPublishClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type redisPublisher struct {
	client  redisPublishClient
	channel string
}

func NewRedisPublisher(client redisPublishClient, channel string) Publisher {
	return &redisPublisher{client: client, channel: channel}
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Publish implements Publisher.
func (p *redisPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	return nil
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error {
	return nil
}

// publishEvent never fails the caller: the request has already committed.
func publishEvent(ctx context.Context, publisher Publisher, log *zap.Logger, event Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("event publish failed",
			zap.String("event", event.Type),
			zap.String("email", event.Email),
			zap.Error(err),
		)
	}
}
