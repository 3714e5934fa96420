package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motamman/signalk-units-preference-sub000/convert"
	"github.com/motamman/signalk-units-preference-sub000/defaults"
	"github.com/motamman/signalk-units-preference-sub000/resolver"
	"github.com/motamman/signalk-units-preference-sub000/store"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

func newTestHub(t *testing.T) (*Hub, *store.Store) {
	t.Helper()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	defs := defaults.New()
	res := resolver.New(st, defs)
	st.OnChange(res.InvalidationHook())
	engine := convert.NewEngine(res, st, defs)

	hub := NewHub(engine, WithCheckOrigin(func(*http.Request) bool { return true }))
	t.Cleanup(hub.Close)
	return hub, st
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleUpgrade))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)
	return conn
}

func TestHubBroadcastsConvertedDelta(t *testing.T) {
	hub, st := newTestHub(t)
	require.NoError(t, st.SetCategoryPreference("speed", types.CategoryPreference{
		TargetUnit: "knots", DisplayFormat: "0.0",
	}))

	conn := dial(t, hub)

	hub.Broadcast(&types.Delta{
		Context: "vessels.self",
		Updates: []types.DeltaUpdate{{
			Timestamp: time.Now().UTC(),
			Values: []types.DeltaPathValue{
				{Path: "navigation.speedOverGround", Value: 5.0},
			},
		}},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var delta types.ConvertedDelta
	require.NoError(t, conn.ReadJSON(&delta))

	require.Len(t, delta.Updates, 1)
	require.Len(t, delta.Updates[0].Values, 1)
	pv := delta.Updates[0].Values[0]
	assert.Equal(t, "navigation.speedOverGround", pv.Path)
	assert.Equal(t, "9.7 kn", pv.Result.Formatted)
	assert.Equal(t, "kn", pv.Result.Metadata.Units)
}

func TestHubPassesThroughUnresolvablePaths(t *testing.T) {
	hub, _ := newTestHub(t)
	conn := dial(t, hub)

	hub.Broadcast(&types.Delta{
		Updates: []types.DeltaUpdate{{
			Values: []types.DeltaPathValue{
				{Path: "some.opaque.identifier", Value: 42.5},
			},
		}},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var delta types.ConvertedDelta
	require.NoError(t, conn.ReadJSON(&delta))

	pv := delta.Updates[0].Values[0]
	assert.Equal(t, types.CategoryNone, pv.Result.Metadata.Units)
	assert.Equal(t, 42.5, pv.Result.Original)
}

func TestHubCloseDisconnectsSubscribers(t *testing.T) {
	hub, _ := newTestHub(t)
	dial(t, hub)

	hub.Close()
	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestBroadcastNilDeltaIsNoop(t *testing.T) {
	hub, _ := newTestHub(t)
	assert.NotPanics(t, func() { hub.Broadcast(nil) })
}

// A subscriber whose queue has been shut stays registered until its write
// pump unregisters it; a broadcast landing in that window must be a no-op for
// it, not a send on a closed channel.
func TestBroadcastAfterSubscriberCloseDoesNotPanic(t *testing.T) {
	hub, _ := newTestHub(t)

	sub := &subscriber{id: "closing", hub: hub, send: make(chan []byte, 1)}
	hub.mu.Lock()
	hub.subscribers[sub.id] = sub
	hub.mu.Unlock()

	sub.close()

	assert.NotPanics(t, func() {
		hub.Broadcast(&types.Delta{
			Updates: []types.DeltaUpdate{{
				Values: []types.DeltaPathValue{
					{Path: "navigation.speedOverGround", Value: 5.0},
				},
			}},
		})
	})
}

func TestEnqueueDropLimitClosesQueue(t *testing.T) {
	hub, _ := newTestHub(t)

	sub := &subscriber{id: "laggard", hub: hub, send: make(chan []byte, 1)}
	sub.send <- []byte("stuck") // never drained

	for i := 0; i < maxConsecutiveDrops; i++ {
		sub.enqueue([]byte("dropped"))
	}

	sub.mu.Lock()
	closed := sub.closed
	sub.mu.Unlock()
	assert.True(t, closed)

	// Late broadcasts after the disconnect are ignored.
	assert.NotPanics(t, func() { sub.enqueue([]byte("late")) })
}
