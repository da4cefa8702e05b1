package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"hickoryctl/internal/auth"
	"hickoryctl/internal/database"
	"hickoryctl/internal/model"
	"hickoryctl/internal/service"
	"hickoryctl/internal/util"
)

// ControlHandler drives DNS listener start/stop. The view is stateless with
// respect to process status: it issues the command, reports the ack or the
// error, and keeps no "running" flag of its own.
type ControlHandler struct {
	dns        *service.DNSService
	sessionMgr *auth.SessionManager
	db         *database.DB
	tmpl       *template.Template
}

func NewControlHandler(dns *service.DNSService, sm *auth.SessionManager, db *database.DB, tmpl *template.Template) *ControlHandler {
	return &ControlHandler{dns: dns, sessionMgr: sm, db: db, tmpl: tmpl}
}

func (h *ControlHandler) Page(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	data := viewData("Process Control", s)
	data["Flash"] = r.URL.Query().Get("msg")

	if servers, stale, err := h.dns.ListServers(r.Context(), bearerOf(s)); err == nil || stale {
		data["Servers"] = servers
		if stale {
			data["Warning"] = staleNotice(err)
		}
	} else {
		data["Error"] = "Failed to load servers: " + err.Error()
	}
	h.tmpl.ExecuteTemplate(w, "layout", data)
}

// Start forwards the bind address untouched; a malformed one comes back as
// the control plane's validation error.
func (h *ControlHandler) Start(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	_ = r.ParseForm()
	serverID := r.FormValue("server_id")
	bind := r.FormValue("bind")

	msg := fmt.Sprintf("Listener start acknowledged for %s on %s", serverID, bind)
	if err := h.dns.StartDNS(r.Context(), bearerOf(s), serverID, bind); err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(model.AuditEntry{
			Username:  usernameOf(s),
			Action:    "dns_start",
			Detail:    fmt.Sprintf("server=%s bind=%s", serverID, bind),
			IPAddress: util.GetClientIP(r),
		})
	}

	http.Redirect(w, r, "/admin/control?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *ControlHandler) Stop(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	_ = r.ParseForm()
	serverID := r.FormValue("server_id")

	msg := fmt.Sprintf("Listener stop acknowledged for %s", serverID)
	if err := h.dns.StopDNS(r.Context(), bearerOf(s), serverID); err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(model.AuditEntry{
			Username:  usernameOf(s),
			Action:    "dns_stop",
			Detail:    fmt.Sprintf("server=%s", serverID),
			IPAddress: util.GetClientIP(r),
		})
	}

	http.Redirect(w, r, "/admin/control?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}
