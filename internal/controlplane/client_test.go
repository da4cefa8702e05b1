package controlplane

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method %s", r.Method)
		}
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("login must not carry a bearer, got %q", r.Header.Get("Authorization"))
		}
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Username != "alice" || body.Password != "s3cret" {
			t.Fatalf("unexpected credentials: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(LoginResult{Token: "tok-1", User: Account{ID: "u1", Role: "admin"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	res, err := c.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "tok-1" || res.User.Role != "admin" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, nil)
	_, err := c.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}
	if IsValidation(err) {
		t.Fatalf("401 misclassified as validation: %v", err)
	}
}

func TestBearerAttachedAndCleared(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Server{})
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, nil)
	ctx := context.Background()

	c.SetToken("tok-1")
	if _, err := c.ListServers(ctx); err != nil {
		t.Fatalf("ListServers: %v", err)
	}
	c.SetToken("")
	if _, err := c.ListServers(ctx); err != nil {
		t.Fatalf("ListServers: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}
	if got[0] != "Bearer tok-1" {
		t.Fatalf("first request header %q", got[0])
	}
	if got[1] != "" {
		t.Fatalf("request after clearing the token still carried %q", got[1])
	}
}

func TestWithTokenDoesNotLeak(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Zone{})
	}))
	defer srv.Close()

	base, _ := NewClient(srv.URL, nil)
	ctx := context.Background()

	if _, err := base.WithToken("session-a").ListZones(ctx); err != nil {
		t.Fatalf("ListZones: %v", err)
	}
	if _, err := base.ListZones(ctx); err != nil {
		t.Fatalf("ListZones: %v", err)
	}

	if got[0] != "Bearer session-a" {
		t.Fatalf("derived client header %q", got[0])
	}
	if got[1] != "" {
		t.Fatalf("base client inherited the derived token: %q", got[1])
	}
}

func TestRecordsScopedByZonePath(t *testing.T) {
	zoneID := "z/with/slash"
	mux := http.NewServeMux()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := "/zones/" + url.PathEscape(zoneID) + "/records"
		if r.URL.EscapedPath() != expected && r.Method == http.MethodGet {
			t.Fatalf("unexpected list path %q", r.URL.EscapedPath())
		}
		mux.ServeHTTP(w, r)
	}))
	defer srv.Close()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Record{{ID: "r1", Name: "www", RecordType: "A", Value: "1.2.3.4", TTL: 300}})
	})

	c, _ := NewClient(srv.URL, nil)
	records, err := c.ListRecords(context.Background(), zoneID)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 1 || records[0].RecordType != "A" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestCreateAndDeleteRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /zones/z1/records", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["name"] != "www" || body["record_type"] != "A" || body["value"] != "1.2.3.4" {
			t.Fatalf("unexpected body: %v", body)
		}
		if ttl, ok := body["ttl"].(float64); !ok || int(ttl) != 3600 {
			t.Fatalf("unexpected ttl: %v", body["ttl"])
		}
		if _, present := body["id"]; present {
			t.Fatal("create body must not carry an id")
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("DELETE /zones/z1/records/r9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := NewClient(srv.URL, nil)
	ctx := context.Background()
	if err := c.CreateRecord(ctx, "z1", Record{Name: "www", RecordType: "A", Value: "1.2.3.4", TTL: 3600}); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if err := c.DeleteRecord(ctx, "z1", "r9"); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
}

func TestCreateServerValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "address is required", http.StatusBadRequest)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, nil)
	err := c.CreateServer(context.Background(), Server{Name: "edge-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGeoRules(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /georules", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]GeoRule{{ID: "g1", ZoneID: "z1", MatchType: "country", MatchValue: "DE", Target: "10.0.0.1"}})
	})
	mux.HandleFunc("POST /georules", func(w http.ResponseWriter, r *http.Request) {
		var rule GeoRule
		if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if rule.ZoneID != "z1" || rule.MatchType != "country" {
			t.Fatalf("unexpected rule: %+v", rule)
		}
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := NewClient(srv.URL, nil)
	ctx := context.Background()
	rules, err := c.ListGeoRules(ctx)
	if err != nil {
		t.Fatalf("ListGeoRules: %v", err)
	}
	if len(rules) != 1 || rules[0].MatchValue != "DE" {
		t.Fatalf("unexpected rules: %+v", rules)
	}
	if err := c.CreateGeoRule(ctx, GeoRule{ZoneID: "z1", MatchType: "country", MatchValue: "FR", Target: "10.0.0.2"}); err != nil {
		t.Fatalf("CreateGeoRule: %v", err)
	}
}

func TestProcessControl(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /dns/start", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["id"] != "srv-1" || body["bind"] != "0.0.0.0:5353" {
			t.Fatalf("unexpected start body: %v", body)
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /dns/stop", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["id"] != "srv-1" {
			t.Fatalf("unexpected stop body: %v", body)
		}
		if _, present := body["bind"]; present {
			t.Fatal("stop body must not carry a bind address")
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := NewClient(srv.URL, nil)
	ctx := context.Background()
	if err := c.StartDNS(ctx, "srv-1", "0.0.0.0:5353"); err != nil {
		t.Fatalf("StartDNS: %v", err)
	}
	if err := c.StopDNS(ctx, "srv-1"); err != nil {
		t.Fatalf("StopDNS: %v", err)
	}
}

func TestClientBasePath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/servers", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/v1/servers" {
			t.Fatalf("unexpected path %q", r.URL.EscapedPath())
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Server{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewClient(srv.URL+"/api/v1", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.ListServers(context.Background()); err != nil {
		t.Fatalf("ListServers: %v", err)
	}
}
