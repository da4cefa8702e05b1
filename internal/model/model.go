package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a console operator account. Upstream-authenticated operators have
// no local row; rows exist for local accounts and auto-provisioned LDAP ones.
type User struct {
	ID         int64
	Username   string
	PassHash   string
	Role       string
	Active     bool
	AuthSource string // "local" or "ldap"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Session binds a signed console cookie to an identity, a role and the
// bearer token used for control-plane calls. All fields are written in a
// single insert so a session is never observable half-replaced.
type Session struct {
	Token      string
	CSRFToken  string
	Username   string
	Role       string
	Bearer     string
	AuthSource string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

type AuditEntry struct {
	ID         int64
	Username   string
	Action     string
	ZoneID     string
	ZoneDomain string
	RecordName string
	RecordType string
	Detail     string
	IPAddress  string
	CreatedAt  time.Time
}
