package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/model"
)

const attendanceCols = `id, user_id, session_id, status, checked_at, verified_at, created_at`

func scanRecord(row interface{ Scan(...any) error }) (model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.SessionID, &rec.Status, &rec.CheckedAt, &rec.VerifiedAt, &rec.CreatedAt)
	return rec, err
}

// AttendanceFilter narrows ListAttendance. Empty fields are ignored.
type AttendanceFilter struct {
	Date      string // matches the session's date
	UserID    string
	SessionID string
}

// ListAttendance returns records matching the filter, newest first.
func (r *Repository) ListAttendance(ctx context.Context, f AttendanceFilter) ([]model.AttendanceRecord, error) {
	query := `SELECT a.id, a.user_id, a.session_id, a.status, a.checked_at, a.verified_at, a.created_at
		FROM attendance_records a`
	args := []any{}
	clauses := []string{}
	if f.Date != "" {
		query += ` JOIN class_sessions s ON s.id = a.session_id`
		args = append(args, f.Date)
		clauses = append(clauses, fmt.Sprintf("s.date = $%d", len(args)))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		clauses = append(clauses, fmt.Sprintf("a.user_id = $%d", len(args)))
	}
	if f.SessionID != "" {
		args = append(args, f.SessionID)
		clauses = append(clauses, fmt.Sprintf("a.session_id = $%d", len(args)))
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += ` ORDER BY a.checked_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []model.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// GetAttendance returns one record, or nil when missing.
func (r *Repository) GetAttendance(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+attendanceCols+` FROM attendance_records WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// InsertAttendance records a check-in. A second check-in for the same
// (user, session) upserts onto the existing row.
func (r *Repository) InsertAttendance(ctx context.Context, rec model.AttendanceRecord) (model.AttendanceRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = model.StatusPending
	}
	if rec.CheckedAt.IsZero() {
		rec.CheckedAt = time.Now().UTC()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_records (id, user_id, session_id, status, checked_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id, session_id) DO UPDATE SET checked_at = EXCLUDED.checked_at
		RETURNING `+attendanceCols+`
	`, rec.ID, rec.UserID, rec.SessionID, rec.Status, rec.CheckedAt)
	return scanRecord(row)
}

// UpdateAttendanceStatus sets the status; moving to verified stamps
// verified_at.
func (r *Repository) UpdateAttendanceStatus(ctx context.Context, id, status string) (*model.AttendanceRecord, error) {
	var verifiedAt any
	if status == model.StatusVerified {
		verifiedAt = time.Now().UTC()
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE attendance_records
		SET status = $2, verified_at = COALESCE($3, verified_at)
		WHERE id = $1
		RETURNING `+attendanceCols+`
	`, id, status, verifiedAt)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteAttendance removes one record; reports whether it existed.
func (r *Repository) DeleteAttendance(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
