package controlplane

import (
	"context"
	"net/http"
)

// ListServers returns all managed nameserver instances.
func (c *Client) ListServers(ctx context.Context) ([]Server, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/servers", nil)
	if err != nil {
		return nil, err
	}
	var servers []Server
	if err := c.do(req, &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

// CreateServer registers a new nameserver instance.
func (c *Client) CreateServer(ctx context.Context, s Server) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/servers", s)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
