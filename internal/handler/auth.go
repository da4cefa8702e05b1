package handler

import (
	"fmt"
	"html/template"
	"net/http"

	"hickoryctl/internal/auth"
	"hickoryctl/internal/config"
	"hickoryctl/internal/controlplane"
	"hickoryctl/internal/database"
	"hickoryctl/internal/model"
	"hickoryctl/internal/util"
)

type AuthHandler struct {
	cp           *controlplane.Client
	serviceToken string
	db           *database.DB
	sessionMgr   *auth.SessionManager
	ldap         *auth.LDAPClient
	tmpl         *template.Template
}

func NewAuthHandler(cp *controlplane.Client, cfg config.ControlPlaneConfig, db *database.DB, sm *auth.SessionManager, ldap *auth.LDAPClient, tmpl *template.Template) *AuthHandler {
	return &AuthHandler{cp: cp, serviceToken: cfg.ServiceToken, db: db, sessionMgr: sm, ldap: ldap, tmpl: tmpl}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.tmpl.ExecuteTemplate(w, "login.html", map[string]interface{}{
		"LDAPEnabled": h.ldap != nil,
	})
}

func (h *AuthHandler) loginError(w http.ResponseWriter, username, msg string) {
	// The submitted username survives a failed attempt so the operator can
	// correct the password and retry.
	h.tmpl.ExecuteTemplate(w, "login.html", map[string]interface{}{
		"Error":       msg,
		"Username":    username,
		"LDAPEnabled": h.ldap != nil,
	})
}

// LoginSubmit tries the control plane first; its answer is authoritative for
// the role and supplies the bearer the session will carry. LDAP and local
// accounts are fallbacks that run under the configured service token.
func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	username := r.FormValue("username")
	password := r.FormValue("password")

	var (
		role       string
		bearer     string
		authSource string
	)

	res, err := h.cp.Login(r.Context(), username, password)
	switch {
	case err == nil:
		role = normalizeRole(res.User.Role)
		bearer = res.Token
		authSource = "controlplane"
	case controlplane.IsAuthFailure(err):
		// fall through to LDAP/local
	default:
		// Control plane unreachable; LDAP/local can still open the console.
	}

	if bearer == "" && h.ldap != nil {
		result, lerr := h.ldap.Authenticate(username, password)
		if lerr == nil && result != nil {
			mapped, allowed := h.ldap.ResolveRole(result.Groups)
			if !allowed {
				h.loginError(w, username, "Access denied: you are not in an authorized group")
				return
			}
			_ = h.db.UpsertLDAPUser(result.Username, mapped)
			username = result.Username
			role = mapped
			bearer = h.serviceToken
			authSource = "ldap"
		}
	}

	if bearer == "" {
		u, derr := h.db.AuthenticateUser(username, password)
		if derr == nil && u != nil {
			if h.ldap != nil && u.Role != model.RoleAdmin {
				h.loginError(w, username, "Local login is disabled. Use LDAP credentials.")
				return
			}
			role = u.Role
			bearer = h.serviceToken
			authSource = "local"
		}
	}

	if bearer == "" {
		h.loginError(w, username, "Invalid credentials")
		return
	}

	h.sessionMgr.CreateSession(w, username, role, bearer, authSource)

	_ = h.db.LogAudit(model.AuditEntry{
		Username:  username,
		Action:    "login",
		Detail:    fmt.Sprintf("auth=%s role=%s", authSource, role),
		IPAddress: util.GetClientIP(r),
	})

	http.Redirect(w, r, auth.HomePath(role), http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var username string
	if s := h.sessionMgr.Current(r); s != nil {
		username = s.Username
	}

	h.sessionMgr.DestroySession(w, r)

	if username != "" {
		_ = h.db.LogAudit(model.AuditEntry{
			Username:  username,
			Action:    "logout",
			IPAddress: util.GetClientIP(r),
		})
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// normalizeRole clamps whatever the control plane reports onto the two roles
// the console knows. Anything unrecognized gets the restricted one.
func normalizeRole(role string) string {
	if role == model.RoleAdmin {
		return model.RoleAdmin
	}
	return model.RoleUser
}
