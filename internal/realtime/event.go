package realtime

import (
	"encoding/json"

	"classtrack/internal/cache"
)

// Change event types, matching what the API server publishes.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Watched tables. One subscription is held per table.
const (
	TableAttendance = "attendance_records"
	TableSessions   = "class_sessions"
	TableBeacons    = "beacons"
	TableUsers      = "users"
)

// WatchedTables lists the tables the syncer subscribes to, in subscription
// order. Teardown happens in the reverse of this order.
var WatchedTables = []string{TableAttendance, TableSessions, TableBeacons, TableUsers}

// Event is one row change pushed by the server.
type Event struct {
	Table string          `json:"table"`
	Type  string          `json:"type"`
	Row   json.RawMessage `json:"row,omitempty"`
}

// fanout maps each watched table to every cache namespace derived from it.
// Dashboard aggregates are computed from attendance and sessions; the role
// listings are projections of the users table.
var fanout = map[string][]string{
	TableAttendance: {cache.NSAttendance, cache.NSDashboard},
	TableSessions:   {cache.NSSessions, cache.NSDashboard},
	TableBeacons:    {cache.NSBeacons, cache.NSBeaconAssignments},
	TableUsers:      {cache.NSUsers, cache.NSStudents, cache.NSLecturers},
}

// Namespaces returns the cache namespaces invalidated by a change on table.
func Namespaces(table string) []string {
	return fanout[table]
}

// channelName is the pub/sub channel carrying changes for one table.
func channelName(table string) string {
	return "rt:" + table
}
