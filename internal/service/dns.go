package service

import (
	"context"

	"hickoryctl/internal/controlplane"
)

// SnapshotStore keeps last-known-good copies of control-plane collections.
// *database.DB satisfies it.
type SnapshotStore interface {
	SaveServerSnapshot(servers []controlplane.Server) error
	LoadServerSnapshot() ([]controlplane.Server, bool)
	InvalidateServerSnapshot()
	SaveZoneSnapshot(zones []controlplane.Zone) error
	LoadZoneSnapshot() ([]controlplane.Zone, bool)
	InvalidateZoneSnapshot()
	SaveRecordSnapshot(zoneID string, records []controlplane.Record) error
	LoadRecordSnapshot(zoneID string) ([]controlplane.Record, bool)
	InvalidateRecordSnapshot(zoneID string)
	SaveGeoRuleSnapshot(rules []controlplane.GeoRule) error
	LoadGeoRuleSnapshot() ([]controlplane.GeoRule, bool)
	InvalidateGeoRuleSnapshot()
}

// DNSService mediates between the console's views and the control plane.
// Every list hits the control plane first; the snapshot is only the fallback
// when that refresh fails. Every successful mutation invalidates the affected
// snapshot, so stale data can never contradict a mutation the operator just
// made, and the page the operator lands on re-lists from the control plane.
type DNSService struct {
	cp    *controlplane.Client
	store SnapshotStore
}

func NewDNSService(cp *controlplane.Client, store SnapshotStore) *DNSService {
	return &DNSService{cp: cp, store: store}
}

// ListServers returns the current server collection. When the refresh fails
// and a snapshot exists, it returns the snapshot, stale=true and the error.
func (s *DNSService) ListServers(ctx context.Context, bearer string) ([]controlplane.Server, bool, error) {
	servers, err := s.cp.WithToken(bearer).ListServers(ctx)
	if err != nil {
		if snap, ok := s.store.LoadServerSnapshot(); ok {
			return snap, true, err
		}
		return nil, false, err
	}
	_ = s.store.SaveServerSnapshot(servers)
	return servers, false, nil
}

func (s *DNSService) CreateServer(ctx context.Context, bearer string, srv controlplane.Server) error {
	if err := s.cp.WithToken(bearer).CreateServer(ctx, srv); err != nil {
		return err
	}
	s.store.InvalidateServerSnapshot()
	return nil
}

func (s *DNSService) ListZones(ctx context.Context, bearer string) ([]controlplane.Zone, bool, error) {
	zones, err := s.cp.WithToken(bearer).ListZones(ctx)
	if err != nil {
		if snap, ok := s.store.LoadZoneSnapshot(); ok {
			return snap, true, err
		}
		return nil, false, err
	}
	_ = s.store.SaveZoneSnapshot(zones)
	return zones, false, nil
}

func (s *DNSService) CreateZone(ctx context.Context, bearer, domain string) error {
	if err := s.cp.WithToken(bearer).CreateZone(ctx, domain); err != nil {
		return err
	}
	s.store.InvalidateZoneSnapshot()
	return nil
}

// ListRecords is scoped by the owning zone; records of one zone are stored
// and recalled strictly under that zone's id, never mixed across zones.
func (s *DNSService) ListRecords(ctx context.Context, bearer, zoneID string) ([]controlplane.Record, bool, error) {
	records, err := s.cp.WithToken(bearer).ListRecords(ctx, zoneID)
	if err != nil {
		if snap, ok := s.store.LoadRecordSnapshot(zoneID); ok {
			return snap, true, err
		}
		return nil, false, err
	}
	for i := range records {
		records[i].ZoneID = zoneID
	}
	_ = s.store.SaveRecordSnapshot(zoneID, records)
	return records, false, nil
}

func (s *DNSService) CreateRecord(ctx context.Context, bearer, zoneID string, r controlplane.Record) error {
	if err := s.cp.WithToken(bearer).CreateRecord(ctx, zoneID, r); err != nil {
		return err
	}
	s.store.InvalidateRecordSnapshot(zoneID)
	return nil
}

func (s *DNSService) DeleteRecord(ctx context.Context, bearer, zoneID, recordID string) error {
	if err := s.cp.WithToken(bearer).DeleteRecord(ctx, zoneID, recordID); err != nil {
		return err
	}
	s.store.InvalidateRecordSnapshot(zoneID)
	return nil
}

func (s *DNSService) ListGeoRules(ctx context.Context, bearer string) ([]controlplane.GeoRule, bool, error) {
	rules, err := s.cp.WithToken(bearer).ListGeoRules(ctx)
	if err != nil {
		if snap, ok := s.store.LoadGeoRuleSnapshot(); ok {
			return snap, true, err
		}
		return nil, false, err
	}
	_ = s.store.SaveGeoRuleSnapshot(rules)
	return rules, false, nil
}

func (s *DNSService) CreateGeoRule(ctx context.Context, bearer string, r controlplane.GeoRule) error {
	if err := s.cp.WithToken(bearer).CreateGeoRule(ctx, r); err != nil {
		return err
	}
	s.store.InvalidateGeoRuleSnapshot()
	return nil
}

// StartDNS and StopDNS are fire-and-forget: an ack or a surfaced error,
// no listener state kept on this side.
func (s *DNSService) StartDNS(ctx context.Context, bearer, serverID, bind string) error {
	return s.cp.WithToken(bearer).StartDNS(ctx, serverID, bind)
}

func (s *DNSService) StopDNS(ctx context.Context, bearer, serverID string) error {
	return s.cp.WithToken(bearer).StopDNS(ctx, serverID)
}
