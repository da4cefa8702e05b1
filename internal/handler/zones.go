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

// ZoneHandler serves the zones view for one section of the console. It is
// instantiated twice: under /admin for administrators and under /user for the
// restricted panel, which shows the same collection.
type ZoneHandler struct {
	dns        *service.DNSService
	sessionMgr *auth.SessionManager
	db         *database.DB
	tmpl       *template.Template
	base       string // "/admin" or "/user"
}

func NewZoneHandler(dns *service.DNSService, sm *auth.SessionManager, db *database.DB, tmpl *template.Template, base string) *ZoneHandler {
	return &ZoneHandler{dns: dns, sessionMgr: sm, db: db, tmpl: tmpl, base: base}
}

func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	data := viewData("Zones", s)
	data["Base"] = h.base
	data["Flash"] = r.URL.Query().Get("msg")

	zones, stale, err := h.dns.ListZones(r.Context(), bearerOf(s))
	if err != nil && !stale {
		data["Error"] = "Failed to load zones: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}
	if stale {
		data["Warning"] = staleNotice(err)
	}
	data["Zones"] = zones
	h.tmpl.ExecuteTemplate(w, "layout", data)
}

func (h *ZoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	_ = r.ParseForm()
	domain := r.FormValue("domain")

	if err := h.dns.CreateZone(r.Context(), bearerOf(s), domain); err != nil {
		data := viewData("Zones", s)
		data["Base"] = h.base
		data["Error"] = "Failed to create zone: " + err.Error()
		data["Domain"] = domain
		if zones, stale, lerr := h.dns.ListZones(r.Context(), bearerOf(s)); lerr == nil || stale {
			data["Zones"] = zones
		}
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	_ = h.db.LogAudit(model.AuditEntry{
		Username:  usernameOf(s),
		Action:    "create_zone",
		Detail:    fmt.Sprintf("domain=%s", domain),
		IPAddress: util.GetClientIP(r),
	})

	http.Redirect(w, r, h.listPath()+"?msg="+url.QueryEscape(fmt.Sprintf("Zone %q created", domain)), http.StatusSeeOther)
}

func (h *ZoneHandler) listPath() string {
	if h.base == "/admin" {
		return "/admin/zones"
	}
	return h.base
}
