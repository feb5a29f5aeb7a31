package apiclient

import (
	"context"
	"net/http"

	"classtrack/internal/model"
)

// LoginResult is the token pair issued on a successful login.
type LoginResult struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    int64      `json:"expires_at"`
	User         model.User `json:"user"`
}

// Login exchanges credentials for a token pair and remembers the access
// token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", nil, in, &out); err != nil {
		return LoginResult{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}

// Refresh rotates a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (LoginResult, error) {
	in := struct {
		RefreshToken string `json:"refresh_token"`
	}{RefreshToken: refreshToken}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", nil, in, &out); err != nil {
		return LoginResult{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}
