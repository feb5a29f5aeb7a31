package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"classtrack/internal/model"
)

// UsersAPI covers user accounts: students, lecturers and admins.
type UsersAPI struct {
	c *Client
}

// Get returns one user by id.
func (a *UsersAPI) Get(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := a.c.do(ctx, http.MethodGet, "/v1/users/"+id, nil, nil, &u)
	return u, err
}

// GetByEmail returns one user by email.
func (a *UsersAPI) GetByEmail(ctx context.Context, email string) (model.User, error) {
	q := url.Values{"email": {email}}
	var out []model.User
	if err := a.c.do(ctx, http.MethodGet, "/v1/users", q, nil, &out); err != nil {
		return model.User{}, err
	}
	if len(out) == 0 {
		return model.User{}, &Error{Status: http.StatusNotFound, Message: "user not found"}
	}
	return out[0], nil
}

// ListByRole lists users with the given role; role "" lists everyone.
func (a *UsersAPI) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", role)
	}
	var out []model.User
	err := a.c.do(ctx, http.MethodGet, "/v1/users", q, nil, &out)
	return out, err
}

// UpdateUserInput carries the mutable profile fields.
type UpdateUserInput struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// Update patches a user's profile fields.
func (a *UsersAPI) Update(ctx context.Context, id string, in UpdateUserInput) (model.User, error) {
	var u model.User
	err := a.c.do(ctx, http.MethodPatch, "/v1/users/"+id, nil, in, &u)
	return u, err
}

// ChangePassword sets a new password after verifying the current one.
func (a *UsersAPI) ChangePassword(ctx context.Context, id, current, next string) error {
	in := struct {
		Current string `json:"current_password"`
		New     string `json:"new_password"`
	}{Current: current, New: next}
	return a.c.do(ctx, http.MethodPost, "/v1/users/"+id+"/password", nil, in, nil)
}

// UploadAvatar sends a base64 data URL; the server stores it and returns the
// public URL.
func (a *UsersAPI) UploadAvatar(ctx context.Context, id, dataURL string) (string, error) {
	in := struct {
		Data string `json:"data"`
	}{Data: dataURL}
	var out struct {
		URL string `json:"url"`
	}
	err := a.c.do(ctx, http.MethodPost, "/v1/users/"+id+"/avatar", nil, in, &out)
	return out.URL, err
}
