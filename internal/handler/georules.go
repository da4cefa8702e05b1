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

type GeoRuleHandler struct {
	dns        *service.DNSService
	sessionMgr *auth.SessionManager
	db         *database.DB
	tmpl       *template.Template
}

func NewGeoRuleHandler(dns *service.DNSService, sm *auth.SessionManager, db *database.DB, tmpl *template.Template) *GeoRuleHandler {
	return &GeoRuleHandler{dns: dns, sessionMgr: sm, db: db, tmpl: tmpl}
}

func (h *GeoRuleHandler) List(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	data := viewData("Geo Rules", s)
	data["Flash"] = r.URL.Query().Get("msg")

	rules, stale, err := h.dns.ListGeoRules(r.Context(), bearerOf(s))
	if err != nil && !stale {
		data["Error"] = "Failed to load geo rules: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}
	if stale {
		data["Warning"] = staleNotice(err)
	}
	data["Rules"] = rules

	// Zone choices for the create form; a refresh failure here only costs
	// the dropdown, not the page.
	if zones, zstale, zerr := h.dns.ListZones(r.Context(), bearerOf(s)); zerr == nil || zstale {
		data["Zones"] = zones
	}
	h.tmpl.ExecuteTemplate(w, "layout", data)
}

func (h *GeoRuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	_ = r.ParseForm()

	rule := controlplane.GeoRule{
		ZoneID:     r.FormValue("zone_id"),
		MatchType:  r.FormValue("match_type"),
		MatchValue: r.FormValue("match_value"),
		Target:     r.FormValue("target"),
	}
	if rule.MatchType == "" {
		rule.MatchType = "country"
	}

	if err := h.dns.CreateGeoRule(r.Context(), bearerOf(s), rule); err != nil {
		data := viewData("Geo Rules", s)
		data["Error"] = "Failed to create geo rule: " + err.Error()
		data["Form"] = rule
		if rules, stale, lerr := h.dns.ListGeoRules(r.Context(), bearerOf(s)); lerr == nil || stale {
			data["Rules"] = rules
		}
		if zones, zstale, zerr := h.dns.ListZones(r.Context(), bearerOf(s)); zerr == nil || zstale {
			data["Zones"] = zones
		}
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	_ = h.db.LogAudit(model.AuditEntry{
		Username:  usernameOf(s),
		Action:    "create_georule",
		ZoneID:    rule.ZoneID,
		Detail:    fmt.Sprintf("match=%s:%s target=%s", rule.MatchType, rule.MatchValue, rule.Target),
		IPAddress: util.GetClientIP(r),
	})

	http.Redirect(w, r, "/admin/georules?msg="+url.QueryEscape("Geo rule created"), http.StatusSeeOther)
}
