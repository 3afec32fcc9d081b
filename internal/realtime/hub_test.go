package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"web-analytics/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(conn)
	}))
	t.Cleanup(server.Close)
	return server
}

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub(zerolog.Nop())
	server := newHubServer(t, hub)
	conn := dialHub(t, server)

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(&models.AggregateSnapshot{OnlineUsers: 7})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "real-time-stats", msg.Type)

	payload, ok := msg.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), payload["onlineUsers"])
}

func TestHub_NotifyEvent(t *testing.T) {
	t.Parallel()

	hub := NewHub(zerolog.Nop())
	server := newHubServer(t, hub)
	conn := dialHub(t, server)

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.NotifyEvent(&models.Event{EventID: "e1", SessionID: "s1", Kind: models.KindPageView})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "new-event", msg.Type)

	payload, ok := msg.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "e1", payload["eventId"])
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	t.Parallel()

	hub := NewHub(zerolog.Nop())
	server := newHubServer(t, hub)
	conn := dialHub(t, server)

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return hub.SubscriberCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEnqueue_DropsOldestWhenFull(t *testing.T) {
	t.Parallel()

	hub := NewHub(zerolog.Nop())
	sub := &subscriber{send: make(chan Message, 2)}

	hub.enqueue(sub, Message{Type: "m1"})
	hub.enqueue(sub, Message{Type: "m2"})
	hub.enqueue(sub, Message{Type: "m3"}) // queue full: m1 is dropped

	assert.Equal(t, "m2", (<-sub.send).Type)
	assert.Equal(t, "m3", (<-sub.send).Type)
	assert.Empty(t, sub.send)
}

func TestHub_BroadcastWithNoSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub(zerolog.Nop())
	hub.Broadcast(&models.AggregateSnapshot{})
	hub.NotifyEvent(&models.Event{EventID: "e1"})
	assert.Zero(t, hub.SubscriberCount())
}
