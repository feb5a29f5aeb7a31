package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"classtrack/internal/model"
)

// DashboardAPI exposes aggregate attendance figures.
type DashboardAPI struct {
	c *Client
}

// Summary returns the dashboard aggregates, optionally scoped to one
// instructor.
func (a *DashboardAPI) Summary(ctx context.Context, instructorID string) (model.DashboardSummary, error) {
	q := url.Values{}
	if instructorID != "" {
		q.Set("instructor_id", instructorID)
	}
	var s model.DashboardSummary
	err := a.c.do(ctx, http.MethodGet, "/v1/dashboard/summary", q, nil, &s)
	return s, err
}
