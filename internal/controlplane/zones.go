package controlplane

import (
	"context"
	"net/http"
)

// ListZones returns all zones known to the control plane.
func (c *Client) ListZones(ctx context.Context) ([]Zone, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/zones", nil)
	if err != nil {
		return nil, err
	}
	var zones []Zone
	if err := c.do(req, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// CreateZone creates a new zone.
func (c *Client) CreateZone(ctx context.Context, domain string) error {
	body := struct {
		Domain string `json:"domain"`
	}{Domain: domain}
	req, err := c.newRequest(ctx, http.MethodPost, "/zones", body)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ListRecords returns the records of one zone.
func (c *Client) ListRecords(ctx context.Context, zoneID string) ([]Record, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.path("zones", zoneID, "records"), nil)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := c.do(req, &records); err != nil {
		return nil, err
	}
	return records, nil
}

type recordRequest struct {
	Name       string `json:"name"`
	RecordType string `json:"record_type"`
	Value      string `json:"value"`
	TTL        int    `json:"ttl"`
}

// CreateRecord adds a record to the given zone.
func (c *Client) CreateRecord(ctx context.Context, zoneID string, r Record) error {
	body := recordRequest{Name: r.Name, RecordType: r.RecordType, Value: r.Value, TTL: r.TTL}
	req, err := c.newRequest(ctx, http.MethodPost, c.path("zones", zoneID, "records"), body)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DeleteRecord removes one record from the given zone.
func (c *Client) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.path("zones", zoneID, "records", recordID), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
