package events

import (
	"context"
	"sync"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
)

// MemoryEventBus is a single-process EventBus used without Redis and in tests
type MemoryEventBus struct {
	hub    *hub
	once   sync.Once
	closed chan struct{}
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{hub: newHub(), closed: make(chan struct{})}
}

var _ providers.EventBus = (*MemoryEventBus)(nil)

func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.HospitalEvent) error {
	b.hub.broadcast(channel, event)
	return nil
}

func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.HospitalEvent, error) {
	ch, _ := b.hub.add(channel)
	go func() {
		select {
		case <-ctx.Done():
		case <-b.closed:
		}
		b.hub.remove(channel, ch)
	}()
	return ch, nil
}

func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.hub.drop(channel)
	return nil
}

func (b *MemoryEventBus) Close() error {
	b.once.Do(func() {
		close(b.closed)
		for _, c := range b.hub.channels() {
			b.hub.drop(c)
		}
	})
	return nil
}
