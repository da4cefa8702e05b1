package database

import (
	"database/sql"

	"hickoryctl/internal/model"
)

// CreateSession stores a session row. Identity, role and bearer land in one
// insert, so a half-replaced session is never observable.
func (db *DB) CreateSession(s model.Session) error {
	_, err := db.conn.Exec(
		`INSERT INTO sessions (token, csrf_token, username, role, bearer, auth_source, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.Token, s.CSRFToken, s.Username, s.Role, s.Bearer, s.AuthSource, s.ExpiresAt,
	)
	return err
}

func (db *DB) GetSession(token string) (*model.Session, error) {
	s := &model.Session{}
	err := db.conn.QueryRow(
		`SELECT token, csrf_token, username, role, bearer, auth_source, created_at, expires_at
		 FROM sessions WHERE token = $1`, token,
	).Scan(&s.Token, &s.CSRFToken, &s.Username, &s.Role, &s.Bearer, &s.AuthSource, &s.CreatedAt, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (db *DB) DeleteSession(token string) error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE token = $1", token)
	return err
}

func (db *DB) PurgeExpiredSessions() error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE expires_at < NOW()")
	return err
}
