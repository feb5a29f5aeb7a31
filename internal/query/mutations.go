package query

import (
	"context"

	"classtrack/internal/apiclient"
	"classtrack/internal/cache"
	"classtrack/internal/model"
)

// Declared invalidation sets, one per mutation family. Dashboard aggregates
// derive from attendance and sessions, so those mutations take the
// dashboard namespace down with them.
var (
	nsAttendanceMut = []string{cache.NSAttendance, cache.NSDashboard}
	nsCourseMut     = []string{cache.NSCourses}
	nsCourseDelete  = []string{cache.NSCourses, cache.NSSessions, cache.NSDashboard}
	nsSessionMut    = []string{cache.NSSessions, cache.NSDashboard}
	nsBeaconMut     = []string{cache.NSBeacons}
	nsBeaconDelete  = []string{cache.NSBeacons, cache.NSBeaconAssignments}
	nsAssignmentMut = []string{cache.NSBeaconAssignments}
	nsUserMut       = []string{cache.NSUsers, cache.NSStudents, cache.NSLecturers}
)

// MarkAttendance records a check-in.
func (s *Service) MarkAttendance(ctx context.Context, in apiclient.MarkInput) error {
	if in.Status != "" && !model.ValidStatus(in.Status) {
		return s.reject("Check-in", "invalid attendance status: "+in.Status)
	}
	return s.mutate(ctx, "Check-in recorded", nsAttendanceMut, func(ctx context.Context) error {
		_, err := s.api.Attendance.Mark(ctx, in)
		return err
	})
}

// UpdateAttendanceStatus sets a record's status. The status value is checked
// here at the edge; everything else is the backend's problem.
func (s *Service) UpdateAttendanceStatus(ctx context.Context, id, status string) error {
	if !model.ValidStatus(status) {
		return s.reject("Attendance update", "invalid attendance status: "+status)
	}
	return s.mutate(ctx, "Attendance updated", nsAttendanceMut, func(ctx context.Context) error {
		_, err := s.api.Attendance.UpdateStatus(ctx, id, status)
		return err
	})
}

// DeleteAttendance removes a record.
func (s *Service) DeleteAttendance(ctx context.Context, id string) error {
	return s.mutate(ctx, "Attendance deleted", nsAttendanceMut, func(ctx context.Context) error {
		return s.api.Attendance.Delete(ctx, id)
	})
}

// CreateCourse adds a course.
func (s *Service) CreateCourse(ctx context.Context, in apiclient.CourseInput) error {
	return s.mutate(ctx, "Course created", nsCourseMut, func(ctx context.Context) error {
		_, err := s.api.Courses.Create(ctx, in)
		return err
	})
}

// UpdateCourse replaces a course's fields.
func (s *Service) UpdateCourse(ctx context.Context, id string, in apiclient.CourseInput) error {
	return s.mutate(ctx, "Course updated", nsCourseMut, func(ctx context.Context) error {
		_, err := s.api.Courses.Update(ctx, id, in)
		return err
	})
}

// DeleteCourse removes a course; its sessions go with it server-side, so
// the sessions and dashboard namespaces are invalidated too.
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	return s.mutate(ctx, "Course deleted", nsCourseDelete, func(ctx context.Context) error {
		return s.api.Courses.Delete(ctx, id)
	})
}

// CreateSession schedules a class session.
func (s *Service) CreateSession(ctx context.Context, in apiclient.SessionInput) error {
	return s.mutate(ctx, "Session created", nsSessionMut, func(ctx context.Context) error {
		_, err := s.api.Sessions.Create(ctx, in)
		return err
	})
}

// UpdateSession replaces a session's fields.
func (s *Service) UpdateSession(ctx context.Context, id string, in apiclient.SessionInput) error {
	return s.mutate(ctx, "Session updated", nsSessionMut, func(ctx context.Context) error {
		_, err := s.api.Sessions.Update(ctx, id, in)
		return err
	})
}

// DeleteSession removes a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.mutate(ctx, "Session deleted", nsSessionMut, func(ctx context.Context) error {
		return s.api.Sessions.Delete(ctx, id)
	})
}

// RegisterBeacon adds a beacon.
func (s *Service) RegisterBeacon(ctx context.Context, in apiclient.BeaconInput) error {
	return s.mutate(ctx, "Beacon registered", nsBeaconMut, func(ctx context.Context) error {
		_, err := s.api.Beacons.Register(ctx, in)
		return err
	})
}

// DeleteBeacon removes a beacon. Assignments referencing it disappear as
// well, so both namespaces are invalidated.
func (s *Service) DeleteBeacon(ctx context.Context, id string) error {
	return s.mutate(ctx, "Beacon deleted", nsBeaconDelete, func(ctx context.Context) error {
		return s.api.Beacons.Delete(ctx, id)
	})
}

// AssignBeacon binds a beacon to a course.
func (s *Service) AssignBeacon(ctx context.Context, beaconID, courseCode string) error {
	return s.mutate(ctx, "Beacon assigned", nsAssignmentMut, func(ctx context.Context) error {
		_, err := s.api.Beacons.Assign(ctx, beaconID, courseCode)
		return err
	})
}

// UnassignBeacon removes one assignment.
func (s *Service) UnassignBeacon(ctx context.Context, assignmentID string) error {
	return s.mutate(ctx, "Beacon unassigned", nsAssignmentMut, func(ctx context.Context) error {
		return s.api.Beacons.Unassign(ctx, assignmentID)
	})
}

// UpdateUser patches a user's profile fields.
func (s *Service) UpdateUser(ctx context.Context, id string, in apiclient.UpdateUserInput) error {
	return s.mutate(ctx, "Profile updated", nsUserMut, func(ctx context.Context) error {
		_, err := s.api.Users.Update(ctx, id, in)
		return err
	})
}
