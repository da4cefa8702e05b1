package auth

import (
	"strings"

	"hickoryctl/internal/model"
)

// The route guard is a pure function over one authoritative route table:
// given the session's role and the requested path it either lets the view
// render or names the redirect target. Authorization never surfaces as an
// error page; an insufficient role downgrades to that role's home.

type route struct {
	prefix    string
	adminOnly bool
}

// Longest prefix wins. Paths outside the table resolve through "/".
var routes = []route{
	{prefix: "/admin/", adminOnly: true},
	{prefix: "/user", adminOnly: false},
}

// HomePath is where a role lands after login and where "/" resolves to.
func HomePath(role string) string {
	switch role {
	case model.RoleAdmin:
		return "/admin/servers"
	case model.RoleUser:
		return "/user"
	default:
		return "/login"
	}
}

// Resolve decides a navigation. role is "" for anonymous. It returns the
// redirect target and true, or ("", false) when the requested view may render.
func Resolve(role, path string) (string, bool) {
	switch {
	case path == "/":
		// The root is never a renderable view; it resolves by session state.
		return HomePath(role), true
	case path == "/login" || strings.HasPrefix(path, "/login/"):
		if role != "" {
			return HomePath(role), true
		}
		return "", false
	case path == "/logout":
		if role == "" {
			return "/login", true
		}
		return "", false
	case path == "/setup" || strings.HasPrefix(path, "/static/"):
		return "", false
	}

	matched := route{}
	found := false
	for _, rt := range routes {
		if strings.HasPrefix(path, rt.prefix) && len(rt.prefix) > len(matched.prefix) {
			matched = rt
			found = true
		}
	}
	if !found {
		return "/", true
	}

	if role == "" {
		// The originally requested path is deliberately not remembered; the
		// post-login destination is derived from the role alone.
		return "/login", true
	}
	if matched.adminOnly && role != model.RoleAdmin {
		return HomePath(model.RoleUser), true
	}
	return "", false
}
