package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/model"
)

const userCols = `id, email, name, role, department, phone, avatar_url, created_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Department, &u.Phone, &u.AvatarURL, &u.CreatedAt)
	return u, err
}

// GetUser returns one user by id, or nil when missing.
func (r *Repository) GetUser(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns users, filtered by role and/or email when set.
func (r *Repository) ListUsers(ctx context.Context, role, email string) ([]model.User, error) {
	query := `SELECT ` + userCols + ` FROM users`
	args := []any{}
	switch {
	case email != "":
		query += ` WHERE email = $1`
		args = append(args, email)
	case role != "":
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser inserts a new account with a pre-hashed password.
func (r *Repository) CreateUser(ctx context.Context, u model.User, passwordHash string) (model.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = model.RoleStudent
	}
	u.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, role, department, phone, avatar_url, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, u.ID, u.Email, u.Name, u.Role, u.Department, u.Phone, u.AvatarURL, passwordHash, u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UpdateUser patches the mutable profile fields; nil means keep.
func (r *Repository) UpdateUser(ctx context.Context, id string, name, department, phone *string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET
			name       = COALESCE($2, name),
			department = COALESCE($3, department),
			phone      = COALESCE($4, phone)
		WHERE id = $1
		RETURNING `+userCols+`
	`, id, name, department, phone)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetUserAvatar stores the uploaded avatar URL.
func (r *Repository) SetUserAvatar(ctx context.Context, id, url string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET avatar_url = $2 WHERE id = $1`, id, url)
	return err
}

// Credential returns the id and password hash for an email, or nil when the
// account does not exist.
func (r *Repository) Credential(ctx context.Context, email string) (*model.User, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userCols+`, password_hash FROM users WHERE email = $1
	`, email)
	var u model.User
	var hash string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Department, &u.Phone, &u.AvatarURL, &u.CreatedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return &u, hash, nil
}

// SetPassword replaces the stored hash.
func (r *Repository) SetPassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	return err
}
