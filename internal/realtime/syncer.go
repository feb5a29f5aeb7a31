package realtime

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"classtrack/internal/cache"
	"classtrack/internal/notify"
)

// Pinger is the coarse connectivity probe; the API client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Syncer keeps the cache consistent with mutations performed elsewhere. It
// holds one subscription per watched table and invalidates the derived
// namespaces on every event; an attendance insert additionally raises a
// check-in notification. The public connectivity signal is Online, fed by
// the ping probe; the per-table subscription acks are tracked separately
// and exposed through Subscribed.
type Syncer struct {
	channel  Channel
	cache    cache.Store
	notifier notify.Notifier
	pinger   Pinger
	interval time.Duration

	online atomic.Bool

	mu         sync.Mutex
	subs       []Subscription // acquisition order; released in reverse
	subscribed map[string]bool
	started    bool
	stopped    bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncer wires the syncer. pinger may be nil, in which case Online stays
// false.
func NewSyncer(ch Channel, c cache.Store, n notify.Notifier, pinger Pinger, pingInterval time.Duration) *Syncer {
	if pingInterval <= 0 {
		pingInterval = 15 * time.Second
	}
	return &Syncer{
		channel:    ch,
		cache:      c,
		notifier:   n,
		pinger:     pinger,
		interval:   pingInterval,
		subscribed: make(map[string]bool),
	}
}

// Start opens all four subscriptions and the connectivity monitor. A failure
// partway through releases everything already acquired and returns the
// error; Start can be called at most once.
func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("realtime: syncer already started")
	}

	runCtx, cancel := context.WithCancel(ctx)

	for _, table := range WatchedTables {
		sub, err := s.channel.Subscribe(runCtx, table)
		if err != nil {
			for i := len(s.subs) - 1; i >= 0; i-- {
				_ = s.subs[i].Close()
			}
			s.subs = nil
			cancel()
			return fmt.Errorf("realtime: subscribe %s: %w", table, err)
		}
		s.subs = append(s.subs, sub)
		s.subscribed[table] = true

		s.wg.Add(1)
		go s.pump(table, sub)
	}

	s.cancel = cancel
	s.started = true

	if s.pinger != nil {
		s.wg.Add(1)
		go s.monitor(runCtx)
	}
	return nil
}

// Stop releases the subscriptions in reverse acquisition order and stops
// the connectivity monitor. Safe to call once after Start; later calls are
// no-ops.
func (s *Syncer) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	subs := s.subs
	cancel := s.cancel
	for _, table := range WatchedTables {
		s.subscribed[table] = false
	}
	s.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		_ = subs[i].Close()
	}
	cancel()
	s.wg.Wait()
}

// Online reports the coarse network connectivity signal.
func (s *Syncer) Online() bool { return s.online.Load() }

// Subscribed returns the per-table subscription acks. Internal signal;
// callers wanting "can I sync" should look at Online.
func (s *Syncer) Subscribed() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.subscribed))
	for k, v := range s.subscribed {
		out[k] = v
	}
	return out
}

// pump applies every event from one subscription until its stream closes.
func (s *Syncer) pump(table string, sub Subscription) {
	defer s.wg.Done()
	for evt := range sub.Events() {
		s.apply(evt)
	}
	s.mu.Lock()
	s.subscribed[table] = false
	s.mu.Unlock()
}

// apply invalidates the namespaces derived from the event's table and
// raises the one special-cased notification: a new attendance insert.
// Every other (table, type) pair invalidates silently.
func (s *Syncer) apply(evt Event) {
	eventsTotal.WithLabelValues(evt.Table, evt.Type).Inc()

	ctx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFn()
	for _, ns := range Namespaces(evt.Table) {
		if err := s.cache.Invalidate(ctx, ns); err != nil {
			log.Printf("realtime: invalidate %s: %v", ns, err)
			continue
		}
		invalidationsTotal.WithLabelValues(ns).Inc()
	}

	if evt.Table == TableAttendance && evt.Type == EventInsert {
		s.notifier.Notify(notify.Notification{
			Title:       "New check-in",
			Description: "A new attendance record just arrived.",
			Variant:     notify.VariantDefault,
		})
	}
}

// monitor runs the connectivity probe on a fixed interval.
func (s *Syncer) monitor(ctx context.Context) {
	defer s.wg.Done()
	probe := func() {
		pingCtx, cancelFn := context.WithTimeout(ctx, 3*time.Second)
		defer cancelFn()
		s.online.Store(s.pinger.Ping(pingCtx) == nil)
	}
	probe()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.online.Store(false)
			return
		case <-ticker.C:
			probe()
		}
	}
}
