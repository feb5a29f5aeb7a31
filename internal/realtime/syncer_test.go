package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/cache"
	"classtrack/internal/notify"
)

type fakeSub struct {
	table  string
	events chan Event

	mu       sync.Mutex
	closed   bool
	closedAt int // global close sequence, assigned by the channel
	ch       *fakeChannel
}

func (s *fakeSub) Events() <-chan Event { return s.events }

func (s *fakeSub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.closedAt = s.ch.nextSeq()
	close(s.events)
	return nil
}

// fakeChannel hands out in-memory subscriptions and can be told to fail the
// Nth Subscribe call.
type fakeChannel struct {
	mu     sync.Mutex
	subs   map[string]*fakeSub
	seq    int
	failOn int // 1-based index of the Subscribe call to fail; 0 = never
	calls  int
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{subs: make(map[string]*fakeSub)}
}

func (c *fakeChannel) nextSeq() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

func (c *fakeChannel) Subscribe(_ context.Context, table string) (Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failOn > 0 && c.calls == c.failOn {
		return nil, errors.New("transport down")
	}
	sub := &fakeSub{table: table, events: make(chan Event), ch: c}
	c.subs[table] = sub
	return sub, nil
}

func (c *fakeChannel) emit(t *testing.T, evt Event) {
	t.Helper()
	c.mu.Lock()
	sub := c.subs[evt.Table]
	c.mu.Unlock()
	require.NotNil(t, sub, "no subscription for %s", evt.Table)
	select {
	case sub.events <- evt:
	case <-time.After(time.Second):
		t.Fatalf("event for %s not consumed", evt.Table)
	}
}

// waitCache wraps the memory cache and signals every invalidation so tests
// can wait for the pump goroutine instead of sleeping.
type waitCache struct {
	cache.Store
	hits chan string
}

func newWaitCache() *waitCache {
	return &waitCache{Store: cache.NewMemory(0), hits: make(chan string, 64)}
}

func (c *waitCache) Invalidate(ctx context.Context, ns string) error {
	err := c.Store.Invalidate(ctx, ns)
	c.hits <- ns
	return err
}

func (c *waitCache) wait(t *testing.T, n int) []string {
	t.Helper()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		select {
		case ns := <-c.hits:
			out = append(out, ns)
		case <-time.After(time.Second):
			t.Fatalf("timed out after %d of %d invalidations", i, n)
		}
	}
	return out
}

func TestSyncerAttendanceInsert(t *testing.T) {
	ch := newFakeChannel()
	c := newWaitCache()
	rec := &notify.Recorder{}
	s := NewSyncer(ch, c, rec, nil, 0)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	ch.emit(t, Event{Table: TableAttendance, Type: EventInsert})

	assert.Equal(t, []string{cache.NSAttendance, cache.NSDashboard}, c.wait(t, 2))

	// One notification, and only for the insert.
	deadline := time.Now().Add(time.Second)
	for len(rec.All()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	got := rec.All()
	require.Len(t, got, 1)
	assert.Equal(t, "New check-in", got[0].Title)
	assert.Equal(t, notify.VariantDefault, got[0].Variant)
}

func TestSyncerUpdateInvalidatesSilently(t *testing.T) {
	ch := newFakeChannel()
	c := newWaitCache()
	rec := &notify.Recorder{}
	s := NewSyncer(ch, c, rec, nil, 0)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	ch.emit(t, Event{Table: TableAttendance, Type: EventUpdate})
	c.wait(t, 2)

	ch.emit(t, Event{Table: TableUsers, Type: EventDelete})
	assert.Equal(t, []string{cache.NSUsers, cache.NSStudents, cache.NSLecturers}, c.wait(t, 3))

	assert.Empty(t, rec.All())
}

func TestSyncerSubscribesAllWatchedTables(t *testing.T) {
	ch := newFakeChannel()
	s := NewSyncer(ch, cache.NewMemory(0), &notify.Recorder{}, nil, 0)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	subscribed := s.Subscribed()
	for _, table := range WatchedTables {
		assert.True(t, subscribed[table], "missing ack for %s", table)
	}
	assert.Len(t, ch.subs, len(WatchedTables))
}

func TestSyncerStopReleasesInReverseOrder(t *testing.T) {
	ch := newFakeChannel()
	s := NewSyncer(ch, cache.NewMemory(0), &notify.Recorder{}, nil, 0)

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	prev := 0
	for i := len(WatchedTables) - 1; i >= 0; i-- {
		sub := ch.subs[WatchedTables[i]]
		require.True(t, sub.closed, "%s not closed", sub.table)
		assert.Greater(t, sub.closedAt, prev, "%s closed out of order", sub.table)
		prev = sub.closedAt
	}

	for _, v := range s.Subscribed() {
		assert.False(t, v)
	}

	// Second Stop is a no-op.
	s.Stop()
}

func TestSyncerStartPartialFailureReleasesAcquired(t *testing.T) {
	ch := newFakeChannel()
	ch.failOn = 3 // beacons subscribe fails
	s := NewSyncer(ch, cache.NewMemory(0), &notify.Recorder{}, nil, 0)

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), TableBeacons)

	assert.True(t, ch.subs[TableAttendance].closed)
	assert.True(t, ch.subs[TableSessions].closed)
	// Released newest-first.
	assert.Greater(t, ch.subs[TableAttendance].closedAt, ch.subs[TableSessions].closedAt)
}

func TestSyncerDoubleStart(t *testing.T) {
	ch := newFakeChannel()
	s := NewSyncer(ch, cache.NewMemory(0), &notify.Recorder{}, nil, 0)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Error(t, s.Start(context.Background()))
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(context.Context) error { return p.err }

func TestSyncerOnlineFollowsPing(t *testing.T) {
	ch := newFakeChannel()
	s := NewSyncer(ch, cache.NewMemory(0), &notify.Recorder{}, &stubPinger{}, time.Hour)

	require.NoError(t, s.Start(context.Background()))

	deadline := time.Now().Add(time.Second)
	for !s.Online() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, s.Online())

	s.Stop()
	assert.False(t, s.Online())
}
