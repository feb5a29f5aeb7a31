// Package repo persists classtrack data in Postgres.
package repo

import (
	"context"
	"database/sql"
	"time"
)

// Repository wraps the shared sql.DB handle.
type Repository struct {
	db *sql.DB
}

// New creates a repo.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping verifies database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Migrate creates the schema when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT UNIQUE NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'student',
		department    TEXT,
		phone         TEXT,
		avatar_url    TEXT,
		password_hash TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS refresh_tokens (
		token      TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		expires_at TIMESTAMPTZ NOT NULL,
		revoked    BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS courses (
		id            TEXT PRIMARY KEY,
		code          TEXT UNIQUE NOT NULL,
		title         TEXT NOT NULL,
		instructor_id TEXT NOT NULL REFERENCES users(id),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS class_sessions (
		id         TEXT PRIMARY KEY,
		course_id  TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		date       TEXT NOT NULL,
		starts_at  TIMESTAMPTZ NOT NULL,
		ends_at    TIMESTAMPTZ NOT NULL,
		room       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attendance_records (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id),
		session_id  TEXT NOT NULL REFERENCES class_sessions(id) ON DELETE CASCADE,
		status      TEXT NOT NULL DEFAULT 'pending',
		checked_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		verified_at TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, session_id)
	);

	CREATE TABLE IF NOT EXISTS beacons (
		id         TEXT PRIMARY KEY,
		uuid       TEXT NOT NULL,
		major      INT NOT NULL DEFAULT 0,
		minor      INT NOT NULL DEFAULT 0,
		label      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (uuid, major, minor)
	);

	CREATE TABLE IF NOT EXISTS beacon_assignments (
		id          TEXT PRIMARY KEY,
		beacon_id   TEXT NOT NULL REFERENCES beacons(id) ON DELETE CASCADE,
		course_code TEXT NOT NULL REFERENCES courses(code),
		assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_session ON attendance_records(session_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_user    ON attendance_records(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_date      ON class_sessions(date);
	`
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// SaveRefreshToken stores a refresh token for rotation checks.
func (r *Repository) SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, token, userID, expiresAt)
	return err
}

// RevokeRefreshToken marks a token revoked.
func (r *Repository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
}

// RefreshTokenValid reports whether token was issued to userID and is
// neither revoked nor expired. Access tokens are never stored here, so they
// fail this check.
func (r *Repository) RefreshTokenValid(ctx context.Context, userID, token string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM refresh_tokens
			WHERE token = $1 AND user_id = $2 AND NOT revoked AND expires_at > NOW()
		)
	`, token, userID).Scan(&ok)
	return ok, err
}
