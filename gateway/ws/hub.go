package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/motamman/signalk-units-preference-sub000/convert"
	"github.com/motamman/signalk-units-preference-sub000/metric"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

const (
	// sendBuffer is the per-subscriber outbound queue depth.
	sendBuffer = 64
	// maxConsecutiveDrops disconnects a subscriber that never drains.
	maxConsecutiveDrops = 32
)

// Hub broadcasts converted deltas to all connected subscribers.
type Hub struct {
	engine  *convert.Engine
	logger  *slog.Logger
	metrics *metric.Registry

	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[string]*subscriber
	closed      bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

// WithMetrics enables the subscriber gauge.
func WithMetrics(m *metric.Registry) Option {
	return func(h *Hub) { h.metrics = m }
}

// WithCheckOrigin overrides the upgrade origin check.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(h *Hub) { h.upgrader.CheckOrigin = fn }
}

// NewHub creates a fan-out hub over a conversion engine.
func NewHub(engine *convert.Engine, opts ...Option) *Hub {
	h := &Hub{
		engine:      engine,
		logger:      slog.Default(),
		subscribers: make(map[string]*subscriber),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleUpgrade upgrades an HTTP request and registers the connection as a
// subscriber. Blocks only for the upgrade; pumps run on their own goroutines.
func (h *Hub) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sub := &subscriber{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.subscribers[sub.id] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	h.setSubscriberGauge(count)
	h.logger.Info("websocket subscriber connected", "id", sub.id, "subscribers", count)

	go sub.writePump()
	go sub.readPump()
}

// Broadcast converts a delta once and fans the encoded result out to every
// subscriber. Slow subscribers have the message dropped.
func (h *Hub) Broadcast(delta *types.Delta) {
	converted := h.engine.ConvertDelta(delta)
	if converted == nil {
		return
	}
	data, err := json.Marshal(converted)
	if err != nil {
		h.logger.Error("converted delta marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		sub.enqueue(data)
	}
}

// SubscriberCount reports the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber and rejects future upgrades.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

// remove unregisters a subscriber after its pumps stop.
func (h *Hub) remove(id string) {
	h.mu.Lock()
	_, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	count := len(h.subscribers)
	h.mu.Unlock()

	if ok {
		h.setSubscriberGauge(count)
		h.logger.Info("websocket subscriber disconnected", "id", id, "subscribers", count)
	}
}

func (h *Hub) setSubscriberGauge(count int) {
	if h.metrics != nil {
		h.metrics.WSSubscribers.Set(float64(count))
	}
}
