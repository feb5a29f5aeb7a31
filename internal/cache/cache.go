package cache

import "context"

// Cache namespaces. A namespace groups every cached result that must be
// refetched together when the underlying table changes.
const (
	NSAttendance        = "attendance"
	NSDashboard         = "dashboard"
	NSSessions          = "sessions"
	NSCourses           = "courses"
	NSBeacons           = "beacons"
	NSBeaconAssignments = "beacon-assignments"
	NSUsers             = "users"
	NSStudents          = "students"
	NSLecturers         = "lecturers"
)

// Store is the keyed query cache. Values are opaque JSON blobs; invalidation
// is always namespace-wide. The handle is injected explicitly wherever it is
// needed, never reached through a package-level singleton.
type Store interface {
	// Get returns the cached value for (namespace, key) and whether it was
	// present and fresh.
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	// Set stores a value under (namespace, key).
	Set(ctx context.Context, namespace, key string, value []byte) error
	// Invalidate drops every entry in the namespace. Invalidating an empty
	// or unknown namespace is a no-op.
	Invalidate(ctx context.Context, namespace string) error
	Close() error
}
