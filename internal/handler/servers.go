package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"hickoryctl/internal/auth"
	"hickoryctl/internal/controlplane"
	"hickoryctl/internal/database"
	"hickoryctl/internal/model"
	"hickoryctl/internal/service"
	"hickoryctl/internal/util"
)

type ServerHandler struct {
	dns        *service.DNSService
	sessionMgr *auth.SessionManager
	db         *database.DB
	tmpl       *template.Template
}

func NewServerHandler(dns *service.DNSService, sm *auth.SessionManager, db *database.DB, tmpl *template.Template) *ServerHandler {
	return &ServerHandler{dns: dns, sessionMgr: sm, db: db, tmpl: tmpl}
}

func (h *ServerHandler) List(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	data := viewData("Servers", s)
	data["Flash"] = r.URL.Query().Get("msg")

	servers, stale, err := h.dns.ListServers(r.Context(), bearerOf(s))
	if err != nil && !stale {
		data["Error"] = "Failed to load servers: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}
	if stale {
		data["Warning"] = staleNotice(err)
	}
	data["Servers"] = servers
	h.tmpl.ExecuteTemplate(w, "layout", data)
}

func (h *ServerHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	_ = r.ParseForm()

	srv := controlplane.Server{
		Name:    r.FormValue("name"),
		Address: r.FormValue("address"),
		Region:  r.FormValue("region"),
	}

	if err := h.dns.CreateServer(r.Context(), bearerOf(s), srv); err != nil {
		// Re-render with the submitted values intact so the operator can retry.
		data := viewData("Servers", s)
		data["Error"] = "Failed to create server: " + err.Error()
		data["Form"] = srv
		if servers, stale, lerr := h.dns.ListServers(r.Context(), bearerOf(s)); lerr == nil || stale {
			data["Servers"] = servers
		}
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	_ = h.db.LogAudit(model.AuditEntry{
		Username:  usernameOf(s),
		Action:    "create_server",
		Detail:    fmt.Sprintf("name=%s address=%s region=%s", srv.Name, srv.Address, srv.Region),
		IPAddress: util.GetClientIP(r),
	})

	http.Redirect(w, r, "/admin/servers?msg="+url.QueryEscape(fmt.Sprintf("Server %q created", srv.Name)), http.StatusSeeOther)
}

func bearerOf(s *model.Session) string {
	if s != nil {
		return s.Bearer
	}
	return ""
}

func usernameOf(s *model.Session) string {
	if s != nil {
		return s.Username
	}
	return ""
}
