package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher fans a change event out to every transport the API server
// feeds: the per-table redis channels and the websocket hub. Publishing is
// best-effort; a failed publish never fails the mutation that caused it.
type Publisher struct {
	client *redis.Client
	hub    *Hub
}

// NewPublisher creates a publisher. Either transport may be nil.
func NewPublisher(client *redis.Client, hub *Hub) *Publisher {
	return &Publisher{client: client, hub: hub}
}

// Publish announces one row change.
func (p *Publisher) Publish(ctx context.Context, evt Event) {
	raw, err := json.Marshal(evt)
	if err != nil {
		log.Printf("realtime: encode event: %v", err)
		return
	}
	if p.client != nil {
		if err := p.client.Publish(ctx, channelName(evt.Table), raw).Err(); err != nil {
			log.Printf("realtime: publish %s %s: %v", evt.Type, evt.Table, err)
		}
	}
	if p.hub != nil {
		p.hub.Broadcast(raw)
	}
}
