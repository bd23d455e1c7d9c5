package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	redisclient "github.com/care4u/backend/internal/infrastructure/clients/redis"
	"github.com/care4u/backend/internal/infrastructure/observability"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub
type RedisEventBus struct {
	client        *redisclient.Client
	hub           *hub
	mu            sync.Mutex
	subscriptions map[string]*redis.PubSub
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		hub:           newHub(),
		subscriptions: make(map[string]*redis.PubSub),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.HospitalEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Msg("Published hospital event")
	return nil
}

// Subscribe subscribes to events on a channel until ctx is done
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.HospitalEvent, error) {
	ch, first := b.hub.add(channel)

	if first {
		b.mu.Lock()
		if _, exists := b.subscriptions[channel]; !exists {
			pubsub := b.client.Client().Subscribe(b.ctx, channel)
			b.subscriptions[channel] = pubsub
			go b.receiveMessages(channel, pubsub)
		}
		b.mu.Unlock()
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		if b.hub.remove(channel, ch) {
			b.closeSubscription(channel)
		}
	}()

	return ch, nil
}

func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	logger := observability.GetLogger()
	msgs := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var event entities.HospitalEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn().Err(err).Str("channel", channel).Msg("Failed to unmarshal hospital event")
				continue
			}
			b.hub.broadcast(channel, &event)
		}
	}
}

func (b *RedisEventBus) closeSubscription(channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pubsub, ok := b.subscriptions[channel]; ok {
		if err := pubsub.Close(); err != nil {
			observability.GetLogger().Warn().Err(err).Str("channel", channel).Msg("Failed to close subscription")
		}
		delete(b.subscriptions, channel)
	}
}

// Unsubscribe closes every local subscriber of a channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.hub.drop(channel)
	b.closeSubscription(channel)
	return nil
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()
	for _, channel := range b.hub.channels() {
		b.hub.drop(channel)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	var errs []error
	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(b.subscriptions, channel)
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing event bus: %v", errs)
	}
	return nil
}
