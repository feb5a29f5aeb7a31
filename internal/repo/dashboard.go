package repo

import (
	"context"
	"time"

	"classtrack/internal/model"
)

// DashboardSummary aggregates today's figures; instructorID scopes the
// session and attendance counts to one instructor's courses when set.
func (r *Repository) DashboardSummary(ctx context.Context, instructorID string) (model.DashboardSummary, error) {
	today := time.Now().UTC().Format("2006-01-02")

	var s model.DashboardSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM courses WHERE $1 = '' OR instructor_id = $1),
			(SELECT COUNT(*) FROM beacons)
	`, instructorID).Scan(&s.TotalStudents, &s.TotalCourses, &s.ActiveBeacons)
	if err != nil {
		return model.DashboardSummary{}, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(DISTINCT cs.id),
			COUNT(a.id) FILTER (WHERE a.status IN ('verified', 'pending')),
			COUNT(a.id) FILTER (WHERE a.status = 'pending')
		FROM class_sessions cs
		JOIN courses c ON c.id = cs.course_id
		LEFT JOIN attendance_records a ON a.session_id = cs.id
		WHERE cs.date = $1 AND ($2 = '' OR c.instructor_id = $2)
	`, today, instructorID).Scan(&s.SessionsToday, &s.CheckinsToday, &s.PendingToday)
	if err != nil {
		return model.DashboardSummary{}, err
	}

	if s.TotalStudents > 0 && s.SessionsToday > 0 {
		expected := float64(s.TotalStudents * s.SessionsToday)
		s.AttendanceRate = float64(s.CheckinsToday) / expected
	}
	s.GeneratedAtUnix = time.Now().Unix()
	return s, nil
}
