package query

import (
	"context"

	"classtrack/internal/cache"
	"classtrack/internal/model"
)

// User returns one user by id. Gated: an empty id returns ErrNotReady
// without touching the API.
func (s *Service) User(ctx context.Context, id string) (model.User, error) {
	if id == "" {
		return model.User{}, ErrNotReady
	}
	return fetch(ctx, s, cache.NSUsers, "id:"+id, func(ctx context.Context) (model.User, error) {
		return s.api.Users.Get(ctx, id)
	})
}

// UserByEmail returns one user by email. Gated on email.
func (s *Service) UserByEmail(ctx context.Context, email string) (model.User, error) {
	if email == "" {
		return model.User{}, ErrNotReady
	}
	return fetch(ctx, s, cache.NSUsers, "email:"+email, func(ctx context.Context) (model.User, error) {
		return s.api.Users.GetByEmail(ctx, email)
	})
}

// Students lists all student accounts.
func (s *Service) Students(ctx context.Context) ([]model.User, error) {
	return fetch(ctx, s, cache.NSStudents, "all", func(ctx context.Context) ([]model.User, error) {
		return s.api.Users.ListByRole(ctx, model.RoleStudent)
	})
}

// Lecturers lists all lecturer accounts.
func (s *Service) Lecturers(ctx context.Context) ([]model.User, error) {
	return fetch(ctx, s, cache.NSLecturers, "all", func(ctx context.Context) ([]model.User, error) {
		return s.api.Users.ListByRole(ctx, model.RoleLecturer)
	})
}

// AttendanceByDate lists records for one day. Gated on date.
func (s *Service) AttendanceByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	if date == "" {
		return nil, ErrNotReady
	}
	return fetch(ctx, s, cache.NSAttendance, "date:"+date, func(ctx context.Context) ([]model.AttendanceRecord, error) {
		return s.api.Attendance.ListByDate(ctx, date)
	})
}

// AttendanceByUser lists records for one user. Gated on userID.
func (s *Service) AttendanceByUser(ctx context.Context, userID string) ([]model.AttendanceRecord, error) {
	if userID == "" {
		return nil, ErrNotReady
	}
	return fetch(ctx, s, cache.NSAttendance, "user:"+userID, func(ctx context.Context) ([]model.AttendanceRecord, error) {
		return s.api.Attendance.ListByUser(ctx, userID)
	})
}

// AttendanceBySession lists records for one session. Gated on sessionID.
func (s *Service) AttendanceBySession(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	if sessionID == "" {
		return nil, ErrNotReady
	}
	return fetch(ctx, s, cache.NSAttendance, "session:"+sessionID, func(ctx context.Context) ([]model.AttendanceRecord, error) {
		return s.api.Attendance.ListBySession(ctx, sessionID)
	})
}

// Courses lists all courses.
func (s *Service) Courses(ctx context.Context) ([]model.Course, error) {
	return fetch(ctx, s, cache.NSCourses, "all", func(ctx context.Context) ([]model.Course, error) {
		return s.api.Courses.List(ctx)
	})
}

// CoursesByInstructor lists one instructor's courses. Gated on instructorID.
func (s *Service) CoursesByInstructor(ctx context.Context, instructorID string) ([]model.Course, error) {
	if instructorID == "" {
		return nil, ErrNotReady
	}
	return fetch(ctx, s, cache.NSCourses, "instructor:"+instructorID, func(ctx context.Context) ([]model.Course, error) {
		return s.api.Courses.ListByInstructor(ctx, instructorID)
	})
}

// SessionsByDate lists sessions on one day. Gated on date.
func (s *Service) SessionsByDate(ctx context.Context, date string) ([]model.ClassSession, error) {
	if date == "" {
		return nil, ErrNotReady
	}
	return fetch(ctx, s, cache.NSSessions, "date:"+date, func(ctx context.Context) ([]model.ClassSession, error) {
		return s.api.Sessions.ListByDate(ctx, date)
	})
}

// SessionsByCourse lists sessions of one course. Gated on courseID.
func (s *Service) SessionsByCourse(ctx context.Context, courseID string) ([]model.ClassSession, error) {
	if courseID == "" {
		return nil, ErrNotReady
	}
	return fetch(ctx, s, cache.NSSessions, "course:"+courseID, func(ctx context.Context) ([]model.ClassSession, error) {
		return s.api.Sessions.ListByCourse(ctx, courseID)
	})
}

// Beacons lists all registered beacons.
func (s *Service) Beacons(ctx context.Context) ([]model.Beacon, error) {
	return fetch(ctx, s, cache.NSBeacons, "all", func(ctx context.Context) ([]model.Beacon, error) {
		return s.api.Beacons.List(ctx)
	})
}

// BeaconAssignments lists all beacon-course assignments.
func (s *Service) BeaconAssignments(ctx context.Context) ([]model.BeaconAssignment, error) {
	return fetch(ctx, s, cache.NSBeaconAssignments, "all", func(ctx context.Context) ([]model.BeaconAssignment, error) {
		return s.api.Beacons.Assignments(ctx)
	})
}

// DashboardSummary returns the aggregate figures, optionally per instructor.
func (s *Service) DashboardSummary(ctx context.Context, instructorID string) (model.DashboardSummary, error) {
	key := "all"
	if instructorID != "" {
		key = "instructor:" + instructorID
	}
	return fetch(ctx, s, cache.NSDashboard, key, func(ctx context.Context) (model.DashboardSummary, error) {
		return s.api.Dashboard.Summary(ctx, instructorID)
	})
}
