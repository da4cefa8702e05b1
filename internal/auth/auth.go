package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"hickoryctl/internal/model"
)

const (
	cookieName    = "hickoryctl_session"
	sessionMaxAge = 24 * time.Hour
)

// Store is the durable session storage the manager runs on. *database.DB
// satisfies it; tests use an in-memory fake.
type Store interface {
	CreateSession(s model.Session) error
	GetSession(token string) (*model.Session, error)
	DeleteSession(token string) error
}

type SessionManager struct {
	secret string
	store  Store
}

func NewSessionManager(secret string, store Store) *SessionManager {
	return &SessionManager{secret: secret, store: store}
}

// CreateSession opens a session for an authenticated operator and sets the
// cookie. The bearer is the control-plane token all of this session's
// upstream calls will carry. Returns the CSRF token for the first render.
func (sm *SessionManager) CreateSession(w http.ResponseWriter, username, role, bearer, authSource string) string {
	token := generateToken()
	csrfToken := generateToken()
	signed := sm.sign(token)
	now := time.Now()

	_ = sm.store.CreateSession(model.Session{
		Token:      signed,
		CSRFToken:  csrfToken,
		Username:   username,
		Role:       role,
		Bearer:     bearer,
		AuthSource: authSource,
		CreatedAt:  now,
		ExpiresAt:  now.Add(sessionMaxAge),
	})

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(sessionMaxAge.Seconds()),
	})
	return csrfToken
}

// DestroySession drops the session row and expires the cookie. Calling it
// without a live session is a no-op.
func (sm *SessionManager) DestroySession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(cookieName)
	if err == nil {
		_ = sm.store.DeleteSession(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   cookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// Current rehydrates the session for a request, or returns nil for an
// anonymous or expired one. Safe to call any number of times per request.
func (sm *SessionManager) Current(r *http.Request) *model.Session {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	s, err := sm.store.GetSession(cookie.Value)
	if err != nil || s == nil || time.Now().After(s.ExpiresAt) {
		return nil
	}
	return s
}

func (sm *SessionManager) ValidateCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete || r.Method == http.MethodPatch {
			s := sm.Current(r)
			if s == nil {
				http.Error(w, "Forbidden: No session", http.StatusForbidden)
				return
			}

			submitted := r.FormValue("csrf_token")
			if submitted == "" {
				submitted = r.Header.Get("X-CSRF-Token")
			}

			if submitted == "" || submitted != s.CSRFToken {
				http.Error(w, "Forbidden: Invalid CSRF token", http.StatusForbidden)
				return
			}
		}
		next(w, r)
	}
}

// Guard installs the route guard in front of the whole app mux. It resolves
// the session fresh on every navigation, so a logout in one tab takes effect
// on the next request from any other.
func (sm *SessionManager) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var role string
		if s := sm.Current(r); s != nil {
			role = s.Role
		}
		if target, redirect := Resolve(role, r.URL.Path); redirect {
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) sign(token string) string {
	mac := hmac.New(sha256.New, []byte(sm.secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func generateToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
