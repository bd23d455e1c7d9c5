package events

import (
	"sync"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/infrastructure/observability"
)

const subscriberBuffer = 100

// hub fans events out to local subscriber channels, per bus channel.
type hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.HospitalEvent]struct{}
}

func newHub() *hub {
	return &hub{subscribers: make(map[string]map[chan *entities.HospitalEvent]struct{})}
}

// add registers a subscriber and reports whether it is the first on channel.
func (h *hub) add(channel string) (chan *entities.HospitalEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	first := false
	if h.subscribers[channel] == nil {
		h.subscribers[channel] = make(map[chan *entities.HospitalEvent]struct{})
		first = true
	}
	ch := make(chan *entities.HospitalEvent, subscriberBuffer)
	h.subscribers[channel][ch] = struct{}{}
	return ch, first
}

// remove drops one subscriber and reports whether channel has none left.
func (h *hub) remove(channel string, ch chan *entities.HospitalEvent) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[channel]
	if !ok {
		return false
	}
	if _, ok := subs[ch]; !ok {
		return false
	}
	delete(subs, ch)
	close(ch)

	if len(subs) == 0 {
		delete(h.subscribers, channel)
		return true
	}
	return false
}

// drop closes every subscriber of channel.
func (h *hub) drop(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers[channel] {
		close(ch)
	}
	delete(h.subscribers, channel)
}

func (h *hub) channels() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.subscribers))
	for c := range h.subscribers {
		out = append(out, c)
	}
	return out
}

// broadcast never blocks; a full subscriber misses the event.
func (h *hub) broadcast(channel string, event *entities.HospitalEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[channel] {
		select {
		case ch <- event:
		default:
			observability.GetLogger().Warn().
				Str("channel", channel).
				Str("event_id", event.ID).
				Msg("Subscriber channel full, skipping event")
		}
	}
}
