package controlplane

import (
	"context"
	"net/http"
)

// ListGeoRules returns all geo-routing rules.
func (c *Client) ListGeoRules(ctx context.Context) ([]GeoRule, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/georules", nil)
	if err != nil {
		return nil, err
	}
	var rules []GeoRule
	if err := c.do(req, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// CreateGeoRule adds a geo-routing rule. Referential integrity against the
// zone id is the control plane's business, not checked here.
func (c *Client) CreateGeoRule(ctx context.Context, r GeoRule) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/georules", r)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
