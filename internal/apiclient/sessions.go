package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"classtrack/internal/model"
)

// SessionsAPI covers class sessions.
type SessionsAPI struct {
	c *Client
}

func (a *SessionsAPI) list(ctx context.Context, q url.Values) ([]model.ClassSession, error) {
	var out []model.ClassSession
	err := a.c.do(ctx, http.MethodGet, "/v1/sessions", q, nil, &out)
	return out, err
}

// ListByDate returns sessions on one day (YYYY-MM-DD).
func (a *SessionsAPI) ListByDate(ctx context.Context, date string) ([]model.ClassSession, error) {
	return a.list(ctx, url.Values{"date": {date}})
}

// ListByCourse returns sessions of one course.
func (a *SessionsAPI) ListByCourse(ctx context.Context, courseID string) ([]model.ClassSession, error) {
	return a.list(ctx, url.Values{"course_id": {courseID}})
}

// SessionInput creates or updates a class session.
type SessionInput struct {
	CourseID string    `json:"course_id"`
	Date     string    `json:"date"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Room     string    `json:"room"`
}

// Create schedules a session.
func (a *SessionsAPI) Create(ctx context.Context, in SessionInput) (model.ClassSession, error) {
	var s model.ClassSession
	err := a.c.do(ctx, http.MethodPost, "/v1/sessions", nil, in, &s)
	return s, err
}

// Update replaces a session's fields.
func (a *SessionsAPI) Update(ctx context.Context, id string, in SessionInput) (model.ClassSession, error) {
	var s model.ClassSession
	err := a.c.do(ctx, http.MethodPut, "/v1/sessions/"+id, nil, in, &s)
	return s, err
}

// Delete removes a session.
func (a *SessionsAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/v1/sessions/"+id, nil, nil, nil)
}
