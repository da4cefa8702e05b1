package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Client provides access to the DNS control-plane HTTP API.
type Client struct {
	endpoint *url.URL
	http     *http.Client

	mu     sync.RWMutex
	bearer string
}

// NewClient creates a new API client. The endpoint should include the
// base path of the API, for example "http://localhost:8080/api/v1".
func NewClient(endpoint string, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	return &Client{endpoint: u, http: httpClient}, nil
}

// SetToken replaces the bearer token carried on subsequent requests. An empty
// token clears it. The swap happens under a lock, so no request built after
// the call can carry the previous token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.bearer = token
	c.mu.Unlock()
}

// WithToken returns a client that shares this client's endpoint and transport
// but carries its own bearer token. Handlers use it to scope control-plane
// calls to the session that triggered them.
func (c *Client) WithToken(token string) *Client {
	return &Client{endpoint: c.endpoint, http: c.http, bearer: token}
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bearer
}

// newRequest builds a request for an already-escaped path relative to the
// endpoint (which may itself carry a base path such as /api/v1).
func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	u := strings.TrimSuffix(c.endpoint.String(), "/") + path
	var buf io.ReadWriter
	if body != nil {
		buf = new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

func (c *Client) path(parts ...string) string {
	p := ""
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}
