package controlplane

// Server identifies an authoritative nameserver instance under management.
type Server struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Region  string `json:"region,omitempty"`
}

// Zone is a DNS domain administered as a unit.
type Zone struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
}

// Record is a single resource record belonging to a zone. The zone id is
// implied by the request path on list/create and omitted by the API there.
type Record struct {
	ID         string `json:"id"`
	ZoneID     string `json:"zone_id,omitempty"`
	Name       string `json:"name"`
	RecordType string `json:"record_type"`
	Value      string `json:"value"`
	TTL        int    `json:"ttl"`
}

// GeoRule routes responses for a zone based on a client attribute match.
type GeoRule struct {
	ID         string `json:"id"`
	ZoneID     string `json:"zone_id"`
	MatchType  string `json:"match_type"`
	MatchValue string `json:"match_value"`
	Target     string `json:"target"`
}

// Account is the identity the control plane reports at login.
type Account struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// LoginResult is the control plane's answer to a successful login.
type LoginResult struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
}
