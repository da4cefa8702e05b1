package controlplane

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and the account identity.
// Invalid credentials come back as a *StatusError satisfying IsAuthFailure.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	var res LoginResult
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
