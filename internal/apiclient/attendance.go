package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"classtrack/internal/model"
)

// AttendanceAPI covers attendance records.
type AttendanceAPI struct {
	c *Client
}

func (a *AttendanceAPI) list(ctx context.Context, q url.Values) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	err := a.c.do(ctx, http.MethodGet, "/v1/attendance", q, nil, &out)
	return out, err
}

// ListByDate lists records for one day (YYYY-MM-DD).
func (a *AttendanceAPI) ListByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	return a.list(ctx, url.Values{"date": {date}})
}

// ListByUser lists records for one user.
func (a *AttendanceAPI) ListByUser(ctx context.Context, userID string) ([]model.AttendanceRecord, error) {
	return a.list(ctx, url.Values{"user_id": {userID}})
}

// ListBySession lists records for one class session.
func (a *AttendanceAPI) ListBySession(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	return a.list(ctx, url.Values{"session_id": {sessionID}})
}

// MarkInput creates a check-in.
type MarkInput struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Status    string `json:"status,omitempty"`
}

// Mark records a check-in for a user in a session.
func (a *AttendanceAPI) Mark(ctx context.Context, in MarkInput) (model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := a.c.do(ctx, http.MethodPost, "/v1/attendance", nil, in, &rec)
	return rec, err
}

// UpdateStatus sets the status of one record.
func (a *AttendanceAPI) UpdateStatus(ctx context.Context, id, status string) (model.AttendanceRecord, error) {
	in := struct {
		Status string `json:"status"`
	}{Status: status}
	var rec model.AttendanceRecord
	err := a.c.do(ctx, http.MethodPatch, "/v1/attendance/"+id, nil, in, &rec)
	return rec, err
}

// Delete removes one record.
func (a *AttendanceAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/v1/attendance/"+id, nil, nil, nil)
}
