package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"hickoryctl/internal/model"
)

type memStore struct {
	sessions map[string]model.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]model.Session)}
}

func (m *memStore) CreateSession(s model.Session) error {
	m.sessions[s.Token] = s
	return nil
}

func (m *memStore) GetSession(token string) (*model.Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) DeleteSession(token string) error {
	delete(m.sessions, token)
	return nil
}

func loginRequest(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	resp := w.Result()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}
	r := httptest.NewRequest(http.MethodGet, "/admin/servers", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestSessionRoundTrip(t *testing.T) {
	store := newMemStore()
	sm := NewSessionManager("secret", store)

	w := httptest.NewRecorder()
	csrf := sm.CreateSession(w, "alice", model.RoleAdmin, "bearer-1", "controlplane")
	if csrf == "" {
		t.Fatal("empty csrf token")
	}

	r := loginRequest(t, w)
	s := sm.Current(r)
	if s == nil {
		t.Fatal("session not rehydrated")
	}
	if s.Username != "alice" || s.Role != model.RoleAdmin || s.Bearer != "bearer-1" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.CSRFToken != csrf {
		t.Fatal("csrf token mismatch")
	}

	// Rehydration is idempotent.
	if again := sm.Current(r); again == nil || again.Token != s.Token {
		t.Fatal("second rehydration differed")
	}
}

func TestDestroySession(t *testing.T) {
	store := newMemStore()
	sm := NewSessionManager("secret", store)

	w := httptest.NewRecorder()
	sm.CreateSession(w, "bob", model.RoleUser, "bearer-2", "controlplane")
	r := loginRequest(t, w)

	w2 := httptest.NewRecorder()
	sm.DestroySession(w2, r)
	if len(store.sessions) != 0 {
		t.Fatal("session row survived logout")
	}
	if s := sm.Current(r); s != nil {
		t.Fatalf("session still resolvable after logout: %+v", s)
	}

	// Logging out again must be harmless.
	sm.DestroySession(httptest.NewRecorder(), r)
}

func TestExpiredSessionIsAnonymous(t *testing.T) {
	store := newMemStore()
	sm := NewSessionManager("secret", store)

	w := httptest.NewRecorder()
	sm.CreateSession(w, "carol", model.RoleUser, "bearer-3", "controlplane")
	for token, s := range store.sessions {
		s.ExpiresAt = time.Now().Add(-time.Minute)
		store.sessions[token] = s
	}

	if s := sm.Current(loginRequest(t, w)); s != nil {
		t.Fatalf("expired session still resolves: %+v", s)
	}
}

func TestNewSessionReplacesIdentityAtomically(t *testing.T) {
	store := newMemStore()
	sm := NewSessionManager("secret", store)

	w1 := httptest.NewRecorder()
	sm.CreateSession(w1, "alice", model.RoleAdmin, "bearer-old", "controlplane")
	w2 := httptest.NewRecorder()
	sm.CreateSession(w2, "dave", model.RoleUser, "bearer-new", "controlplane")

	// The browser only holds the newest cookie; whatever it resolves to must
	// be one coherent identity, never a mix.
	s := sm.Current(loginRequest(t, w2))
	if s == nil {
		t.Fatal("no session")
	}
	if s.Username != "dave" || s.Role != model.RoleUser || s.Bearer != "bearer-new" {
		t.Fatalf("mixed session state: %+v", s)
	}
}

func TestValidateCSRF(t *testing.T) {
	store := newMemStore()
	sm := NewSessionManager("secret", store)

	w := httptest.NewRecorder()
	csrf := sm.CreateSession(w, "alice", model.RoleAdmin, "b", "controlplane")
	cookies := w.Result().Cookies()

	called := false
	h := sm.ValidateCSRF(func(w http.ResponseWriter, r *http.Request) { called = true })

	post := func(token string) *httptest.ResponseRecorder {
		form := url.Values{}
		if token != "" {
			form.Set("csrf_token", token)
		}
		r := httptest.NewRequest(http.MethodPost, "/admin/servers/create", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			r.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h(rec, r)
		return rec
	}

	if rec := post("wrong"); rec.Code != http.StatusForbidden || called {
		t.Fatalf("bad token passed: code=%d called=%v", rec.Code, called)
	}
	if rec := post(""); rec.Code != http.StatusForbidden || called {
		t.Fatalf("missing token passed: code=%d called=%v", rec.Code, called)
	}
	if rec := post(csrf); rec.Code == http.StatusForbidden || !called {
		t.Fatalf("valid token rejected: code=%d called=%v", rec.Code, called)
	}
}

func TestGuardMiddleware(t *testing.T) {
	store := newMemStore()
	sm := NewSessionManager("secret", store)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := sm.Guard(next)

	// Anonymous hit on a protected route redirects to the login view.
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/servers", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("anonymous: code=%d location=%q", rec.Code, rec.Header().Get("Location"))
	}

	// A logged-in admin passes through.
	w := httptest.NewRecorder()
	sm.CreateSession(w, "alice", model.RoleAdmin, "b", "controlplane")
	r := httptest.NewRequest(http.MethodGet, "/admin/servers", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin blocked: code=%d", rec.Code)
	}

	// The same admin asking for the login view is sent home instead.
	r2 := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, r2)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/servers" {
		t.Fatalf("login re-entry: code=%d location=%q", rec.Code, rec.Header().Get("Location"))
	}
}
