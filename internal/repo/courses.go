package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/model"
)

const courseCols = `id, code, title, instructor_id, created_at`

func scanCourse(row interface{ Scan(...any) error }) (model.Course, error) {
	var c model.Course
	err := row.Scan(&c.ID, &c.Code, &c.Title, &c.InstructorID, &c.CreatedAt)
	return c, err
}

// ListCourses returns all courses, or one instructor's when set.
func (r *Repository) ListCourses(ctx context.Context, instructorID string) ([]model.Course, error) {
	query := `SELECT ` + courseCols + ` FROM courses`
	args := []any{}
	if instructorID != "" {
		query += ` WHERE instructor_id = $1`
		args = append(args, instructorID)
	}
	query += ` ORDER BY code`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// CreateCourse inserts a course.
func (r *Repository) CreateCourse(ctx context.Context, c model.Course) (model.Course, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO courses (id, code, title, instructor_id, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, c.ID, c.Code, c.Title, c.InstructorID, c.CreatedAt)
	if err != nil {
		return model.Course{}, err
	}
	return c, nil
}

// UpdateCourse replaces a course's fields; nil result means not found.
func (r *Repository) UpdateCourse(ctx context.Context, id, code, title, instructorID string) (*model.Course, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE courses SET code = $2, title = $3, instructor_id = $4
		WHERE id = $1
		RETURNING `+courseCols+`
	`, id, code, title, instructorID)
	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCourse removes a course; sessions cascade in the schema.
func (r *Repository) DeleteCourse(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
