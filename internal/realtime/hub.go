package realtime

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The API already enforces CORS; the socket carries no commands.
		return true
	},
}

// Hub broadcasts change events to every connected websocket client. Clients
// only listen; anything they send is discarded. Each connection carries its
// own write lock: gorilla allows at most one concurrent writer per
// connection, and Broadcast runs from concurrent handler goroutines.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]*sync.Mutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]*sync.Mutex)}
}

// HandleWS upgrades the request and registers the client.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: ws upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = &sync.Mutex{}
	n := len(h.conns)
	h.mu.Unlock()
	log.Printf("realtime: ws client connected (%d total)", n)

	// Drain reads so pings and close frames are processed; drop the client
	// on any read error.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast writes the raw event to every client, dropping the ones that
// fail. Writes to one connection are serialized through its write lock.
func (h *Hub) Broadcast(raw []byte) {
	type client struct {
		conn *websocket.Conn
		wmu  *sync.Mutex
	}
	h.mu.Lock()
	clients := make([]client, 0, len(h.conns))
	for conn, wmu := range h.conns {
		clients = append(clients, client{conn: conn, wmu: wmu})
	}
	h.mu.Unlock()

	for _, cl := range clients {
		cl.wmu.Lock()
		cl.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		err := cl.conn.WriteMessage(websocket.TextMessage, raw)
		cl.wmu.Unlock()
		if err != nil {
			h.drop(cl.conn)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
		log.Println("realtime: ws client disconnected")
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
