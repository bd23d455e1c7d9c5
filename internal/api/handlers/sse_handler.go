package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/internal/infrastructure/observability"
)

const (
	sseHeartbeatInterval  = 30 * time.Second
	defaultRegionRadiusKm = 50.0
)

// SSEHandler streams hospital status changes as Server-Sent Events
type SSEHandler struct {
	eventBus  providers.EventBus
	geo       providers.GeolocationProvider
	heartbeat time.Duration
	clients   map[string]map[chan *entities.HospitalEvent]bool
	mu        sync.RWMutex
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus, geo providers.GeolocationProvider) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		geo:       geo,
		heartbeat: sseHeartbeatInterval,
		clients:   make(map[string]map[chan *entities.HospitalEvent]bool),
	}
}

// StreamAllHospitals handles GET /api/stream/hospitals
func (h *SSEHandler) StreamAllHospitals(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelHospitalUpdates, map[string]interface{}{
		"channel": providers.EventChannelHospitalUpdates,
	}, nil)
}

// StreamHospitalUpdates handles GET /api/stream/hospitals/{id}
func (h *SSEHandler) StreamHospitalUpdates(w http.ResponseWriter, r *http.Request) {
	hospitalID := r.PathValue("id")
	if hospitalID == "" {
		respondWithError(w, http.StatusBadRequest, "hospital ID is required")
		return
	}

	h.stream(w, r, providers.GetHospitalChannel(hospitalID), map[string]interface{}{
		"hospital_id": hospitalID,
	}, nil)
}

// StreamRegionalUpdates handles GET /api/stream/region?lat=X&lng=Y&radius=Z
func (h *SSEHandler) StreamRegionalUpdates(w http.ResponseWriter, r *http.Request) {
	if h.geo == nil {
		respondWithError(w, http.StatusNotImplemented, "regional streaming is not configured")
		return
	}

	center, err := parseLocation(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if center == nil {
		respondWithError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	radius := defaultRegionRadiusKm
	if raw := r.URL.Query().Get("radius"); raw != "" {
		parsed, err := parseFinite(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid radius parameter")
			return
		}
		radius = parsed
	}

	from := providers.Coordinates{Latitude: center.Latitude, Longitude: center.Longitude}
	inRegion := func(ctx context.Context, event *entities.HospitalEvent) bool {
		to := providers.Coordinates{Latitude: event.Location.Latitude, Longitude: event.Location.Longitude}
		km, err := h.geo.CalculateDistance(ctx, from, to)
		return err == nil && km <= radius
	}

	h.stream(w, r, providers.EventChannelHospitalUpdates, map[string]interface{}{
		"lat":       center.Latitude,
		"lng":       center.Longitude,
		"radius_km": radius,
	}, inRegion)
}

func (h *SSEHandler) stream(
	w http.ResponseWriter,
	r *http.Request,
	channel string,
	hello map[string]interface{},
	filter func(context.Context, *entities.HospitalEvent) bool,
) {
	logger := observability.LoggerFromContext(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		logger.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe to channel")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	clientChan := make(chan *entities.HospitalEvent, 16)
	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	hello["timestamp"] = time.Now()
	h.sendEvent(w, "connected", hello)
	flusher.Flush()

	go forwardEvents(r.Context(), eventChan, clientChan, filter)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Str("channel", channel).Msg("Stream client disconnected")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{"timestamp": time.Now()})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// forwardEvents drops events when the client falls behind rather than blocking the bus
func forwardEvents(
	ctx context.Context,
	eventChan <-chan *entities.HospitalEvent,
	clientChan chan<- *entities.HospitalEvent,
	filter func(context.Context, *entities.HospitalEvent) bool,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if filter != nil && !filter(ctx, event) {
				continue
			}
			select {
			case clientChan <- event:
			default:
			}
		}
	}
}

func (h *SSEHandler) registerClient(channel string, clientChan chan *entities.HospitalEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.HospitalEvent]bool)
	}
	h.clients[channel][clientChan] = true
}

func (h *SSEHandler) unregisterClient(channel string, clientChan chan *entities.HospitalEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[channel]; exists {
		delete(clients, clientChan)
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		observability.GetLogger().Error().Err(err).Msg("Failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", payload)
}

// GetClientCount returns the number of connected stream clients
func (h *SSEHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
