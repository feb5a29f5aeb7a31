package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// WSChannel consumes the API server's websocket hub and demultiplexes the
// single event stream into per-table subscriptions.
type WSChannel struct {
	url string

	mu   sync.Mutex
	conn *websocket.Conn
	subs map[string][]*wsSubscription
}

// NewWSChannel creates a websocket-backed change channel. The connection is
// dialed on the first Subscribe.
func NewWSChannel(url string) *WSChannel {
	return &WSChannel{url: url, subs: make(map[string][]*wsSubscription)}
}

// Subscribe registers interest in one table's events.
func (w *WSChannel) Subscribe(ctx context.Context, table string) (Subscription, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, nil)
		if err != nil {
			return nil, err
		}
		w.conn = conn
		go w.readLoop(conn)
	}

	sub := &wsSubscription{parent: w, table: table, events: make(chan Event, 16)}
	w.subs[table] = append(w.subs[table], sub)
	return sub, nil
}

func (w *WSChannel) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			w.shutdown(conn)
			return
		}
		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			log.Printf("realtime: drop malformed ws event: %v", err)
			continue
		}
		// Deliver under the lock: unsubscribe removes a sub from the map
		// before closing its channel, so a sub reachable here is open. The
		// sends never block, the channels are buffered and drop when full.
		w.mu.Lock()
		for _, sub := range w.subs[evt.Table] {
			select {
			case sub.events <- evt:
			default:
				// Slow consumer; the cache refetch will catch up.
			}
		}
		w.mu.Unlock()
	}
}

// shutdown closes every subscription after the transport drops.
func (w *WSChannel) shutdown(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != conn {
		return
	}
	w.conn = nil
	for _, subs := range w.subs {
		for _, sub := range subs {
			close(sub.events)
		}
	}
	w.subs = make(map[string][]*wsSubscription)
	_ = conn.Close()
}

func (w *WSChannel) unsubscribe(sub *wsSubscription) {
	w.mu.Lock()
	defer w.mu.Unlock()
	subs := w.subs[sub.table]
	for i, s := range subs {
		if s == sub {
			w.subs[sub.table] = append(subs[:i], subs[i+1:]...)
			close(sub.events)
			break
		}
	}
	// Last subscriber gone: drop the connection.
	remaining := 0
	for _, s := range w.subs {
		remaining += len(s)
	}
	if remaining == 0 && w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
}

type wsSubscription struct {
	parent *WSChannel
	table  string
	events chan Event
	once   sync.Once
}

func (s *wsSubscription) Events() <-chan Event { return s.events }

func (s *wsSubscription) Close() error {
	s.once.Do(func() { s.parent.unsubscribe(s) })
	return nil
}
