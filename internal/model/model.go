package model

import "time"

// Roles a user account can hold.
const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
	RoleAdmin    = "admin"
)

// Attendance statuses. These are the only values the client layer will
// accept for a status mutation; everything else is rejected before the
// backend is called.
const (
	StatusVerified = "verified"
	StatusPending  = "pending"
	StatusAbsent   = "absent"
)

// ValidStatus reports whether s is one of the defined attendance statuses.
func ValidStatus(s string) bool {
	return s == StatusVerified || s == StatusPending || s == StatusAbsent
}

// User is a student, lecturer or admin account.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department *string   `json:"department,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Course is a taught unit owned by one instructor.
type Course struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	InstructorID string    `json:"instructor_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClassSession is one scheduled meeting of a course.
type ClassSession struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"created_at"`
}

// AttendanceRecord links a user to a session with a status.
type AttendanceRecord struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	SessionID  string     `json:"session_id"`
	Status     string     `json:"status"`
	CheckedAt  time.Time  `json:"checked_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Beacon is a registered BLE transmitter.
type Beacon struct {
	ID        string    `json:"id"`
	UUID      string    `json:"uuid"`
	Major     int       `json:"major"`
	Minor     int       `json:"minor"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// BeaconAssignment binds a beacon to a course.
type BeaconAssignment struct {
	ID         string    `json:"id"`
	BeaconID   string    `json:"beacon_id"`
	CourseCode string    `json:"course_code"`
	AssignedAt time.Time `json:"assigned_at"`
}

// DashboardSummary aggregates attendance figures for the dashboard view.
type DashboardSummary struct {
	TotalStudents   int     `json:"total_students"`
	TotalCourses    int     `json:"total_courses"`
	SessionsToday   int     `json:"sessions_today"`
	CheckinsToday   int     `json:"checkins_today"`
	PendingToday    int     `json:"pending_today"`
	AttendanceRate  float64 `json:"attendance_rate"`
	ActiveBeacons   int     `json:"active_beacons"`
	GeneratedAtUnix int64   `json:"generated_at"`
}
