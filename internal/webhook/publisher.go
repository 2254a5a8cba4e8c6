package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

const (
	webhookQueueKey = "webhook_events"

	EventGeofenceBreach = "geofence_breach"
)

// WebhookEvent - структура для данных вебхука о входе в опасную зону
type WebhookEvent struct {
	Event     string                 `json:"event"`
	ActorID   string                 `json:"actor_id"`
	Latitude  float64                `json:"latitude"`
	Longitude float64                `json:"longitude"`
	Timestamp time.Time              `json:"timestamp"`
	Zones     []*models.GeofenceZone `json:"zones"`
	Alerts    []*models.Alert        `json:"alerts,omitempty"`
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH в голову списка, воркер забирает с хвоста через BRPOP
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
