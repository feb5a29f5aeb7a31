package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/cache"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	r.GET("/ws", hub.HandleWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != n && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, n, hub.Len())
}

func recv(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case evt, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestHubBroadcastReachesWSSubscription(t *testing.T) {
	hub, url := startHub(t)
	ch := NewWSChannel(url)

	sub, err := ch.Subscribe(context.Background(), TableAttendance)
	require.NoError(t, err)
	defer sub.Close()
	waitClients(t, hub, 1)

	raw, _ := json.Marshal(Event{Table: TableAttendance, Type: EventInsert})
	hub.Broadcast(raw)

	evt := recv(t, sub)
	assert.Equal(t, TableAttendance, evt.Table)
	assert.Equal(t, EventInsert, evt.Type)
}

func TestWSChannelDemuxesByTable(t *testing.T) {
	hub, url := startHub(t)
	ch := NewWSChannel(url)

	attSub, err := ch.Subscribe(context.Background(), TableAttendance)
	require.NoError(t, err)
	defer attSub.Close()
	userSub, err := ch.Subscribe(context.Background(), TableUsers)
	require.NoError(t, err)
	defer userSub.Close()

	// One shared connection for both subscriptions.
	waitClients(t, hub, 1)

	raw, _ := json.Marshal(Event{Table: TableUsers, Type: EventUpdate})
	hub.Broadcast(raw)

	evt := recv(t, userSub)
	assert.Equal(t, TableUsers, evt.Table)

	select {
	case evt := <-attSub.Events():
		t.Fatalf("attendance subscription got %s event for %s", evt.Type, evt.Table)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWSChannelClosingLastSubDropsConnection(t *testing.T) {
	hub, url := startHub(t)
	ch := NewWSChannel(url)

	sub, err := ch.Subscribe(context.Background(), TableBeacons)
	require.NoError(t, err)
	waitClients(t, hub, 1)

	require.NoError(t, sub.Close())
	// Close is idempotent.
	require.NoError(t, sub.Close())
	waitClients(t, hub, 0)
}

func TestWSChannelCloseDuringBroadcast(t *testing.T) {
	hub, url := startHub(t)
	ch := NewWSChannel(url)

	// A long-lived subscription keeps the shared connection up while
	// attendance subscriptions churn.
	keep, err := ch.Subscribe(context.Background(), TableUsers)
	require.NoError(t, err)
	defer keep.Close()
	waitClients(t, hub, 1)

	raw, _ := json.Marshal(Event{Table: TableAttendance, Type: EventInsert})
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				hub.Broadcast(raw)
			}
		}
	}()

	// Tearing a subscription down while events are in flight must not
	// crash the channel.
	for i := 0; i < 200; i++ {
		sub, err := ch.Subscribe(context.Background(), TableAttendance)
		require.NoError(t, err)
		select {
		case <-sub.Events():
		case <-time.After(time.Millisecond):
		}
		require.NoError(t, sub.Close())
	}

	close(stop)
	wg.Wait()
}

func TestHubConcurrentBroadcast(t *testing.T) {
	hub, url := startHub(t)

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()
	waitClients(t, hub, 1)

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	raw, _ := json.Marshal(Event{Table: TableUsers, Type: EventUpdate})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Broadcast(raw)
			}
		}()
	}
	wg.Wait()

	// Overlapping broadcasts serialize per connection; the client survives.
	assert.Equal(t, 1, hub.Len())
}

func TestFanout(t *testing.T) {
	tests := []struct {
		table string
		want  []string
	}{
		{TableAttendance, []string{cache.NSAttendance, cache.NSDashboard}},
		{TableSessions, []string{cache.NSSessions, cache.NSDashboard}},
		{TableBeacons, []string{cache.NSBeacons, cache.NSBeaconAssignments}},
		{TableUsers, []string{cache.NSUsers, cache.NSStudents, cache.NSLecturers}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Namespaces(tt.table), tt.table)
	}
	assert.Empty(t, Namespaces("refresh_tokens"))
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "rt:attendance_records", channelName(TableAttendance))
}
