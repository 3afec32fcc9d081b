package realtime

import (
	"sync"
	"time"

	"web-analytics/internal/models"
	"web-analytics/internal/shared/loggers"

	"github.com/gorilla/websocket"
)

const (
	// outbound queue per subscriber; a slow dashboard loses the oldest
	// queued message, never stalls the pipeline
	subscriberQueueSize = 16

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Message envelope pushed to dashboard sockets.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	messageTypeStats    = "real-time-stats"
	messageTypeNewEvent = "new-event"
)

type subscriber struct {
	conn *websocket.Conn
	send chan Message
}

// Hub fans snapshots and event notifications out to connected dashboards.
// Both delivery paths are fire-and-forget: enqueueing never blocks, and a
// full subscriber queue drops its oldest message to make room.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}

	logger loggers.Logger
}

func NewHub(logger loggers.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		logger:      logger,
	}
}

// Register adopts an upgraded websocket connection and serves it until the
// peer disconnects.
func (h *Hub) Register(conn *websocket.Conn) {
	sub := &subscriber{
		conn: conn,
		send: make(chan Message, subscriberQueueSize),
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	metricSubscribers.Set(float64(count))
	h.logger.Debug().Int("subscribers", count).Msg("dashboard connected")

	go h.writePump(sub)
	go h.readPump(sub)
}

// Broadcast pushes a snapshot to every subscriber.
func (h *Hub) Broadcast(snapshot *models.AggregateSnapshot) {
	h.broadcast(Message{Type: messageTypeStats, Data: snapshot})
}

// NotifyEvent pushes a single-event notification to every subscriber.
// Implements the aggregator's notifier contract; must never block ingest.
func (h *Hub) NotifyEvent(event *models.Event) {
	h.broadcast(Message{Type: messageTypeNewEvent, Data: event})
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		h.enqueue(sub, msg)
	}
}

// enqueue delivers msg without blocking. When the subscriber's queue is
// full, the oldest queued message is discarded first.
func (h *Hub) enqueue(sub *subscriber, msg Message) {
	select {
	case sub.send <- msg:
		return
	default:
	}

	select {
	case <-sub.send:
		metricMessagesDroppedTotal.WithLabelValues(msg.Type).Inc()
	default:
	}

	select {
	case sub.send <- msg:
	default:
		metricMessagesDroppedTotal.WithLabelValues(msg.Type).Inc()
	}
}

func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub]
	if ok {
		delete(h.subscribers, sub)
	}
	count := len(h.subscribers)
	h.mu.Unlock()

	if !ok {
		return
	}
	_ = sub.conn.Close()
	metricSubscribers.Set(float64(count))
	h.logger.Debug().Int("subscribers", count).Msg("dashboard disconnected")
}

func (h *Hub) writePump(sub *subscriber) {
	pingTicker := time.NewTicker(pingPeriod)
	defer func() {
		pingTicker.Stop()
		h.unregister(sub)
	}()

	for {
		select {
		case msg := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteJSON(msg); err != nil {
				return
			}
			metricMessagesSentTotal.WithLabelValues(msg.Type).Inc()
		case <-pingTicker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the socket is push-only. It exists to
// notice disconnects and answer pings.
func (h *Hub) readPump(sub *subscriber) {
	defer h.unregister(sub)

	sub.conn.SetReadLimit(maxMessageSize)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}
