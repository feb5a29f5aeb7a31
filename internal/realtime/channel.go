package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// Subscription is one open change stream for a single table.
type Subscription interface {
	// Events yields decoded change events. The channel closes when the
	// subscription is closed or the transport drops.
	Events() <-chan Event
	Close() error
}

// Channel opens per-table subscriptions against the change-notification
// transport. Reconnection, if any, is the transport's business, not the
// syncer's.
type Channel interface {
	Subscribe(ctx context.Context, table string) (Subscription, error)
}

// RedisChannel delivers change events over redis pub/sub, one channel per
// table.
type RedisChannel struct {
	client *redis.Client
}

// NewRedisChannel creates a redis-backed change channel.
func NewRedisChannel(client *redis.Client) *RedisChannel {
	return &RedisChannel{client: client}
}

// Subscribe opens the pub/sub channel for one table. The returned
// subscription is confirmed by the server before this returns.
func (rc *RedisChannel) Subscribe(ctx context.Context, table string) (Subscription, error) {
	ps := rc.client.Subscribe(ctx, channelName(table))
	// Receive blocks until redis acknowledges the subscription.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("realtime: drop malformed event on %s: %v", msg.Channel, err)
				continue
			}
			if evt.Table == "" {
				evt.Table = table
			}
			out <- evt
		}
	}()
	return &redisSubscription{ps: ps, events: out}, nil
}

type redisSubscription struct {
	ps     *redis.PubSub
	events chan Event
}

func (s *redisSubscription) Events() <-chan Event { return s.events }

func (s *redisSubscription) Close() error { return s.ps.Close() }
