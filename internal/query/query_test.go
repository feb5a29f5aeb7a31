package query

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/apiclient"
	"classtrack/internal/cache"
	"classtrack/internal/model"
	"classtrack/internal/notify"
)

// opLog records cache invalidations and notifications in arrival order so
// tests can assert the invalidate-then-notify contract.
type opLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *opLog) add(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *opLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ops...)
}

type spyCache struct {
	cache.Store
	log *opLog
}

func (c *spyCache) Invalidate(ctx context.Context, ns string) error {
	c.log.add("invalidate:" + ns)
	return c.Store.Invalidate(ctx, ns)
}

type spyNotifier struct {
	log *opLog
}

func (n *spyNotifier) Notify(nn notify.Notification) {
	n.log.add("notify:" + nn.Variant)
}

func setup(t *testing.T, handler http.Handler) (*Service, *spyCache, *opLog, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := &opLog{}
	c := &spyCache{Store: cache.NewMemory(0), log: log}
	svc := NewService(apiclient.New(srv.URL), c, &spyNotifier{log: log})
	return svc, c, log, srv
}

func TestGatedReadSkipsFetch(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	svc, _, _, _ := setup(t, mux)

	_, err := svc.User(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = svc.AttendanceByDate(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = svc.CoursesByInstructor(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotReady)

	assert.Equal(t, int64(0), calls.Load())
}

func TestReadFetchesOnceForConstantKey(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/u1", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(model.User{ID: "u1", Name: "Ada", Role: model.RoleLecturer})
	})
	svc, _, _, _ := setup(t, mux)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		usr, err := svc.User(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Ada", usr.Name)
	}
	assert.Equal(t, int64(1), calls.Load())
}

func TestConcurrentReadsCoalesce(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(100 * time.Millisecond)
		_ = json.NewEncoder(w).Encode([]model.Course{{ID: "c1", Code: "CS101"}})
	})
	svc, _, _, _ := setup(t, mux)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			courses, err := svc.Courses(context.Background())
			assert.NoError(t, err)
			assert.Len(t, courses, 1)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
}

func TestMutationSuccessInvalidatesThenNotifies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/attendance/a1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.AttendanceRecord{ID: "a1", Status: model.StatusVerified})
	})
	svc, c, log, _ := setup(t, mux)
	ctx := context.Background()

	_ = c.Set(ctx, cache.NSAttendance, "date:2026-03-02", []byte("stale"))
	_ = c.Set(ctx, cache.NSDashboard, "all", []byte("stale"))

	require.NoError(t, svc.UpdateAttendanceStatus(ctx, "a1", model.StatusVerified))

	assert.Equal(t, []string{
		"invalidate:" + cache.NSAttendance,
		"invalidate:" + cache.NSDashboard,
		"notify:" + notify.VariantSuccess,
	}, log.all())

	_, ok, _ := c.Get(ctx, cache.NSAttendance, "date:2026-03-02")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, cache.NSDashboard, "all")
	assert.False(t, ok)
}

func TestMutationFailureLeavesCacheUntouched(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/beacons/b1", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	})
	svc, c, log, _ := setup(t, mux)
	ctx := context.Background()

	_ = c.Set(ctx, cache.NSBeacons, "all", []byte(`[{"id":"b1"}]`))
	_ = c.Set(ctx, cache.NSBeaconAssignments, "all", []byte(`[]`))

	err := svc.DeleteBeacon(ctx, "b1")
	require.Error(t, err)

	// Exactly one failure notification, zero invalidations.
	assert.Equal(t, []string{"notify:" + notify.VariantDestructive}, log.all())

	val, ok, _ := c.Get(ctx, cache.NSBeacons, "all")
	assert.True(t, ok)
	assert.Equal(t, []byte(`[{"id":"b1"}]`), val)
	val, ok, _ = c.Get(ctx, cache.NSBeaconAssignments, "all")
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), val)
}

func TestBeaconDeleteInvalidatesBothNamespaces(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/beacons/b1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	svc, _, log, _ := setup(t, mux)

	require.NoError(t, svc.DeleteBeacon(context.Background(), "b1"))
	assert.Equal(t, []string{
		"invalidate:" + cache.NSBeacons,
		"invalidate:" + cache.NSBeaconAssignments,
		"notify:" + notify.VariantSuccess,
	}, log.all())
}

func TestInvalidStatusRejectedBeforeBackend(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	svc, _, log, _ := setup(t, mux)

	err := svc.UpdateAttendanceStatus(context.Background(), "a1", "late")
	require.Error(t, err)

	assert.Equal(t, int64(0), calls.Load())
	assert.Equal(t, []string{"notify:" + notify.VariantDestructive}, log.all())
}

func TestUndecodableCacheEntryRefetches(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/u2", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(model.User{ID: "u2", Name: "Grace"})
	})
	svc, c, _, _ := setup(t, mux)
	ctx := context.Background()

	_ = c.Set(ctx, cache.NSUsers, "id:u2", []byte("{not json"))

	usr, err := svc.User(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Grace", usr.Name)
	assert.Equal(t, int64(1), calls.Load())
}
