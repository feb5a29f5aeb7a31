package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	_, ok, err := m.Get(ctx, NSUsers, "id:1")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, m.Set(ctx, NSUsers, "id:1", []byte(`{"id":"1"}`)))

	val, ok, err := m.Get(ctx, NSUsers, "id:1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"id":"1"}`), val)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()
	_ = m.Set(ctx, NSCourses, "all", []byte("abc"))

	val, _, _ := m.Get(ctx, NSCourses, "all")
	val[0] = 'x'

	again, _, _ := m.Get(ctx, NSCourses, "all")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryInvalidateDropsNamespaceOnly(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()
	_ = m.Set(ctx, NSAttendance, "date:2026-03-02", []byte("a"))
	_ = m.Set(ctx, NSAttendance, "user:u1", []byte("b"))
	_ = m.Set(ctx, NSDashboard, "all", []byte("c"))

	assert.NoError(t, m.Invalidate(ctx, NSAttendance))

	_, ok, _ := m.Get(ctx, NSAttendance, "date:2026-03-02")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, NSAttendance, "user:u1")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, NSDashboard, "all")
	assert.True(t, ok)
}

func TestMemoryInvalidateUnknownNamespace(t *testing.T) {
	m := NewMemory(0)
	assert.NoError(t, m.Invalidate(context.Background(), "nope"))
}

func TestMemoryTTL(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Now()
	m.clock = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Set(ctx, NSBeacons, "all", []byte("b"))
	_, ok, _ := m.Get(ctx, NSBeacons, "all")
	assert.True(t, ok)

	m.clock = func() time.Time { return now.Add(2 * time.Minute) }
	_, ok, _ = m.Get(ctx, NSBeacons, "all")
	assert.False(t, ok)
}
