package live_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"junkos/internal/adapters/out/live"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	Event string         `json:"event"`
	Room  string         `json:"room"`
	Data  map[string]any `json:"data"`
}

func startHub(t *testing.T, hub *live.Hub) func(p live.Principal) *websocket.Conn {
	t.Helper()
	var (
		mu      sync.Mutex
		pending live.Principal
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		p := pending
		mu.Unlock()
		_ = hub.Serve(w, r, p)
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return func(p live.Principal) *websocket.Conn {
		mu.Lock()
		pending = p
		mu.Unlock()

		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// followers lets the listed users join the listed rooms.
func followers(allowed map[string]string) live.Option {
	return live.WithRoomAuthorizer(func(_ context.Context, p live.Principal, room string) (bool, error) {
		return allowed[p.UserID] == room, nil
	})
}

func TestHub_JoinAndEmit(t *testing.T) {
	hub := live.NewHub(nil, followers(map[string]string{"u1": "job-1"}))
	dial := startHub(t, hub)
	conn := dial(live.Principal{UserID: "u1"})

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "join", "room": "job-1"}))
	ack := read(t, conn)
	assert.Equal(t, "joined", ack.Event)
	assert.Equal(t, "job-1", ack.Data["room"])

	require.NoError(t, hub.Emit(t.Context(), "job-1", "job:status", map[string]any{"status": "en_route"}))

	got := read(t, conn)
	assert.Equal(t, "job:status", got.Event)
	assert.Equal(t, "job-1", got.Room)
	assert.Equal(t, "en_route", got.Data["status"])
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := live.NewHub(nil, followers(map[string]string{"u1": "job-1"}))
	dial := startHub(t, hub)
	conn := dial(live.Principal{UserID: "u1"})

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "join", "room": "job-1"}))
	read(t, conn)
	require.Equal(t, 1, hub.RoomSize("job-1"))

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "leave", "room": "job-1"}))
	assert.Eventually(t, func() bool { return hub.RoomSize("job-1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_AdminRoomRequiresAdmin(t *testing.T) {
	hub := live.NewHub(nil)
	dial := startHub(t, hub)

	customer := dial(live.Principal{UserID: "u1"})
	require.NoError(t, customer.WriteJSON(map[string]string{"type": "admin:join"}))
	assert.Equal(t, "error", read(t, customer).Event)

	admin := dial(live.Principal{UserID: "a1", IsAdmin: true})
	require.NoError(t, admin.WriteJSON(map[string]string{"type": "admin:join"}))
	assert.Equal(t, "joined", read(t, admin).Event)
	assert.Equal(t, 1, hub.RoomSize(live.AdminRoom))
}

func TestHub_JobRoomRequiresAuthorization(t *testing.T) {
	t.Run("only followers of the job join", func(t *testing.T) {
		hub := live.NewHub(nil, live.WithRoomAuthorizer(func(_ context.Context, p live.Principal, room string) (bool, error) {
			if p.UserID == "broken" {
				return false, errors.New("db down")
			}
			return p.UserID == "customer" && room == "job-1", nil
		}))
		dial := startHub(t, hub)

		customer := dial(live.Principal{UserID: "customer"})
		require.NoError(t, customer.WriteJSON(map[string]string{"type": "join", "room": "job-1"}))
		assert.Equal(t, "joined", read(t, customer).Event)

		stranger := dial(live.Principal{UserID: "stranger"})
		require.NoError(t, stranger.WriteJSON(map[string]string{"type": "join", "room": "job-1"}))
		assert.Equal(t, "error", read(t, stranger).Event)

		broken := dial(live.Principal{UserID: "broken"})
		require.NoError(t, broken.WriteJSON(map[string]string{"type": "join", "room": "job-1"}))
		assert.Equal(t, "error", read(t, broken).Event)

		admin := dial(live.Principal{UserID: "admin", IsAdmin: true})
		require.NoError(t, admin.WriteJSON(map[string]string{"type": "join", "room": "job-1"}))
		assert.Equal(t, "joined", read(t, admin).Event)

		assert.Equal(t, 2, hub.RoomSize("job-1"))
	})

	t.Run("without an authorizer only admins join", func(t *testing.T) {
		hub := live.NewHub(nil)
		dial := startHub(t, hub)

		customer := dial(live.Principal{UserID: "customer"})
		require.NoError(t, customer.WriteJSON(map[string]string{"type": "join", "room": "job-1"}))
		assert.Equal(t, "error", read(t, customer).Event)

		admin := dial(live.Principal{UserID: "admin", IsAdmin: true})
		require.NoError(t, admin.WriteJSON(map[string]string{"type": "join", "room": "job-1"}))
		assert.Equal(t, "joined", read(t, admin).Event)
	})
}

func TestHub_ContractorJoinsOwnDriverRoom(t *testing.T) {
	hub := live.NewHub(nil)
	dial := startHub(t, hub)
	conn := dial(live.Principal{UserID: "u2", ContractorID: "c-1"})

	require.Eventually(t, func() bool { return hub.RoomSize("driver:c-1") == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Emit(t.Context(), "driver:c-1", "job:new", map[string]any{"id": "job-9"}))
	assert.Equal(t, "job:new", read(t, conn).Event)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "join", "room": "driver:c-2"}))
	assert.Equal(t, "error", read(t, conn).Event)
}

func TestHub_EmitToEmptyRoom(t *testing.T) {
	hub := live.NewHub(nil)
	require.NoError(t, hub.Emit(context.Background(), "nobody", "job:status", nil))
}

func TestHub_LocationOverSocket(t *testing.T) {
	type ping struct {
		contractor string
		lat, lng   float64
	}
	pings := make(chan ping, 1)
	hub := live.NewHub(nil, live.WithLocationHandler(func(_ context.Context, p live.Principal, lat, lng float64) error {
		if lat > 90 {
			return errors.New("latitude out of range")
		}
		pings <- ping{p.ContractorID, lat, lng}
		return nil
	}))
	dial := startHub(t, hub)

	driver := dial(live.Principal{UserID: "u3", ContractorID: "c-3"})
	require.NoError(t, driver.WriteJSON(map[string]any{"type": "driver:location", "lat": 27.95, "lng": -82.45}))
	select {
	case got := <-pings:
		assert.Equal(t, ping{"c-3", 27.95, -82.45}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("location was not delivered")
	}

	require.NoError(t, driver.WriteJSON(map[string]any{"type": "driver:location", "lat": 120.0, "lng": 0.0}))
	assert.Equal(t, "error", read(t, driver).Event)

	customer := dial(live.Principal{UserID: "u4"})
	require.NoError(t, customer.WriteJSON(map[string]any{"type": "driver:location", "lat": 1.0, "lng": 1.0}))
	assert.Equal(t, "error", read(t, customer).Event)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := live.NewHub(nil)
	dial := startHub(t, hub)
	conn := dial(live.Principal{UserID: "u1", ContractorID: "c-1"})
	require.Eventually(t, func() bool { return hub.RoomSize("driver:c-1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()

	assert.Equal(t, 0, hub.RoomSize("driver:c-1"))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}
