package database

import (
	"hickoryctl/internal/controlplane"
)

// Snapshots are last-known-good copies of control-plane collections. They are
// written after every successful refresh and read only when a live refresh
// fails, so a flaky upstream degrades to stale data instead of an empty page.

func (db *DB) SaveServerSnapshot(servers []controlplane.Server) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	_, _ = tx.Exec("DELETE FROM server_snapshot")
	stmt, err := tx.Prepare("INSERT INTO server_snapshot (id, name, address, region) VALUES ($1, $2, $3, $4)")
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, s := range servers {
		_, _ = stmt.Exec(s.ID, s.Name, s.Address, s.Region)
	}
	return tx.Commit()
}

func (db *DB) LoadServerSnapshot() ([]controlplane.Server, bool) {
	rows, err := db.conn.Query("SELECT id, name, address, region FROM server_snapshot ORDER BY name")
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var servers []controlplane.Server
	for rows.Next() {
		var s controlplane.Server
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Region); err != nil {
			return nil, false
		}
		servers = append(servers, s)
	}
	return servers, len(servers) > 0
}

func (db *DB) SaveZoneSnapshot(zones []controlplane.Zone) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	_, _ = tx.Exec("DELETE FROM zone_snapshot")
	stmt, err := tx.Prepare("INSERT INTO zone_snapshot (zone_id, domain) VALUES ($1, $2)")
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, z := range zones {
		_, _ = stmt.Exec(z.ID, z.Domain)
	}
	return tx.Commit()
}

func (db *DB) LoadZoneSnapshot() ([]controlplane.Zone, bool) {
	rows, err := db.conn.Query("SELECT zone_id, domain FROM zone_snapshot ORDER BY domain")
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var zones []controlplane.Zone
	for rows.Next() {
		var z controlplane.Zone
		if err := rows.Scan(&z.ID, &z.Domain); err != nil {
			return nil, false
		}
		zones = append(zones, z)
	}
	return zones, len(zones) > 0
}

func (db *DB) SaveRecordSnapshot(zoneID string, records []controlplane.Record) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	_, _ = tx.Exec("DELETE FROM record_snapshot WHERE zone_id = $1", zoneID)
	stmt, err := tx.Prepare(
		"INSERT INTO record_snapshot (zone_id, record_id, name, record_type, value, ttl) VALUES ($1, $2, $3, $4, $5, $6)")
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, r := range records {
		_, _ = stmt.Exec(zoneID, r.ID, r.Name, r.RecordType, r.Value, r.TTL)
	}
	return tx.Commit()
}

func (db *DB) LoadRecordSnapshot(zoneID string) ([]controlplane.Record, bool) {
	rows, err := db.conn.Query(
		"SELECT record_id, name, record_type, value, ttl FROM record_snapshot WHERE zone_id = $1 ORDER BY name", zoneID)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var records []controlplane.Record
	for rows.Next() {
		var r controlplane.Record
		if err := rows.Scan(&r.ID, &r.Name, &r.RecordType, &r.Value, &r.TTL); err != nil {
			return nil, false
		}
		r.ZoneID = zoneID
		records = append(records, r)
	}
	return records, len(records) > 0
}

func (db *DB) InvalidateRecordSnapshot(zoneID string) {
	_, _ = db.conn.Exec("DELETE FROM record_snapshot WHERE zone_id = $1", zoneID)
}

func (db *DB) InvalidateServerSnapshot() {
	_, _ = db.conn.Exec("DELETE FROM server_snapshot")
}

func (db *DB) InvalidateZoneSnapshot() {
	_, _ = db.conn.Exec("DELETE FROM zone_snapshot")
}

func (db *DB) InvalidateGeoRuleSnapshot() {
	_, _ = db.conn.Exec("DELETE FROM georule_snapshot")
}

func (db *DB) SaveGeoRuleSnapshot(rules []controlplane.GeoRule) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	_, _ = tx.Exec("DELETE FROM georule_snapshot")
	stmt, err := tx.Prepare(
		"INSERT INTO georule_snapshot (id, zone_id, match_type, match_value, target) VALUES ($1, $2, $3, $4, $5)")
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, r := range rules {
		_, _ = stmt.Exec(r.ID, r.ZoneID, r.MatchType, r.MatchValue, r.Target)
	}
	return tx.Commit()
}

func (db *DB) LoadGeoRuleSnapshot() ([]controlplane.GeoRule, bool) {
	rows, err := db.conn.Query("SELECT id, zone_id, match_type, match_value, target FROM georule_snapshot ORDER BY id")
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var rules []controlplane.GeoRule
	for rows.Next() {
		var r controlplane.GeoRule
		if err := rows.Scan(&r.ID, &r.ZoneID, &r.MatchType, &r.MatchValue, &r.Target); err != nil {
			return nil, false
		}
		rules = append(rules, r)
	}
	return rules, len(rules) > 0
}
