package controlplane

import (
	"context"
	"net/http"
)

type startRequest struct {
	ID   string `json:"id"`
	Bind string `json:"bind"`
}

type stopRequest struct {
	ID string `json:"id"`
}

// StartDNS asks the control plane to bring up a listener for the given server
// on the given bind address. The bind string is passed through untouched; a
// malformed one is the control plane's to reject.
func (c *Client) StartDNS(ctx context.Context, serverID, bind string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/dns/start", startRequest{ID: serverID, Bind: bind})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// StopDNS asks the control plane to shut down the listener for the given
// server. No listener state is tracked on this side.
func (c *Client) StopDNS(ctx context.Context, serverID string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/dns/stop", stopRequest{ID: serverID})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
