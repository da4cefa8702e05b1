package auth

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		path     string
		redirect string // "" means the view renders
	}{
		{"anonymous root", "", "/", "/login"},
		{"user root", "user", "/", "/user"},
		{"admin root", "admin", "/", "/admin/servers"},

		{"anonymous admin route", "", "/admin/servers", "/login"},
		{"anonymous user route", "", "/user", "/login"},
		{"anonymous records", "", "/user/zones/z1/records", "/login"},

		{"user on admin zones", "user", "/admin/zones", "/user"},
		{"user on admin servers", "user", "/admin/servers", "/user"},
		{"user on admin records", "user", "/admin/zones/z1/records", "/user"},
		{"user on own panel", "user", "/user", ""},
		{"user on own records", "user", "/user/zones/z1/records", ""},

		{"admin on admin route", "admin", "/admin/georules", ""},
		{"admin on user panel", "admin", "/user", ""},

		{"anonymous login", "", "/login", ""},
		{"user login re-entry", "user", "/login", "/user"},
		{"admin login re-entry", "admin", "/login", "/admin/servers"},

		{"anonymous logout", "", "/logout", "/login"},
		{"user logout", "user", "/logout", ""},

		{"setup is public", "", "/setup", ""},
		{"static is public", "", "/static/style.css", ""},

		{"unknown path anonymous", "", "/nope", "/"},
		{"unknown path admin", "admin", "/nope/deeper", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, redirected := Resolve(tt.role, tt.path)
			if tt.redirect == "" {
				if redirected {
					t.Fatalf("Resolve(%q, %q) redirected to %q, want render", tt.role, tt.path, target)
				}
				return
			}
			if !redirected {
				t.Fatalf("Resolve(%q, %q) rendered, want redirect to %q", tt.role, tt.path, tt.redirect)
			}
			if target != tt.redirect {
				t.Fatalf("Resolve(%q, %q) = %q, want %q", tt.role, tt.path, target, tt.redirect)
			}
		})
	}
}

// A user deep-linking an admin path must land on the user home, and the
// admin content must never be what renders, regardless of nesting depth.
func TestResolveAdminSubtreeDowngrades(t *testing.T) {
	paths := []string{
		"/admin/servers",
		"/admin/zones",
		"/admin/zones/z42/records",
		"/admin/georules",
		"/admin/control",
		"/admin/users",
		"/admin/audit",
	}
	for _, p := range paths {
		target, redirected := Resolve("user", p)
		if !redirected || target != "/user" {
			t.Fatalf("Resolve(user, %q) = (%q, %v), want redirect to /user", p, target, redirected)
		}
	}
}
