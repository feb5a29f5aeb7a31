package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/model"
)

const sessionCols = `id, course_id, date, starts_at, ends_at, room, created_at`

func scanSession(row interface{ Scan(...any) error }) (model.ClassSession, error) {
	var s model.ClassSession
	err := row.Scan(&s.ID, &s.CourseID, &s.Date, &s.StartsAt, &s.EndsAt, &s.Room, &s.CreatedAt)
	return s, err
}

// ListSessions returns sessions filtered by date and/or course.
func (r *Repository) ListSessions(ctx context.Context, date, courseID string) ([]model.ClassSession, error) {
	query := `SELECT ` + sessionCols + ` FROM class_sessions`
	args := []any{}
	if date != "" {
		args = append(args, date)
		query += ` WHERE date = $1`
	}
	if courseID != "" {
		args = append(args, courseID)
		if len(args) == 1 {
			query += ` WHERE course_id = $1`
		} else {
			query += ` AND course_id = $2`
		}
	}
	query += ` ORDER BY starts_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []model.ClassSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// CreateSession schedules a session.
func (r *Repository) CreateSession(ctx context.Context, s model.ClassSession) (model.ClassSession, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO class_sessions (id, course_id, date, starts_at, ends_at, room, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, s.ID, s.CourseID, s.Date, s.StartsAt, s.EndsAt, s.Room, s.CreatedAt)
	if err != nil {
		return model.ClassSession{}, err
	}
	return s, nil
}

// UpdateSession replaces a session's fields; nil result means not found.
func (r *Repository) UpdateSession(ctx context.Context, id string, in model.ClassSession) (*model.ClassSession, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE class_sessions SET course_id = $2, date = $3, starts_at = $4, ends_at = $5, room = $6
		WHERE id = $1
		RETURNING `+sessionCols+`
	`, id, in.CourseID, in.Date, in.StartsAt, in.EndsAt, in.Room)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes a session; attendance records cascade.
func (r *Repository) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM class_sessions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
