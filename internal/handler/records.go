package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/miekg/dns"

	"hickoryctl/internal/auth"
	"hickoryctl/internal/controlplane"
	"hickoryctl/internal/database"
	"hickoryctl/internal/model"
	"hickoryctl/internal/service"
	"hickoryctl/internal/util"
)

type RecordHandler struct {
	dns        *service.DNSService
	sessionMgr *auth.SessionManager
	db         *database.DB
	tmpl       *template.Template
	base       string
}

func NewRecordHandler(svc *service.DNSService, sm *auth.SessionManager, db *database.DB, tmpl *template.Template, base string) *RecordHandler {
	return &RecordHandler{dns: svc, sessionMgr: sm, db: db, tmpl: tmpl, base: base}
}

// recordTypeOptions are the RR types the create form offers, in display
// order. Names come from the canonical type table.
func recordTypeOptions() []string {
	preferred := []uint16{
		dns.TypeA, dns.TypeAAAA, dns.TypeCNAME, dns.TypeMX, dns.TypeTXT,
		dns.TypeNS, dns.TypeSRV, dns.TypePTR, dns.TypeCAA, dns.TypeSOA,
	}
	out := make([]string, 0, len(preferred))
	for _, t := range preferred {
		out = append(out, dns.TypeToString[t])
	}
	return out
}

func (h *RecordHandler) listPath(zoneID string) string {
	return fmt.Sprintf("%s/zones/%s/records", h.base, url.PathEscape(zoneID))
}

// List shows one zone's records. The zone id comes from the path on every
// request, so navigating from zone A to zone B is a fresh fetch under B's id
// and can never show A's records.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	zoneID := r.PathValue("zoneID")
	s := h.sessionMgr.Current(r)

	data := viewData("Records", s)
	data["Base"] = h.base
	data["ZoneID"] = zoneID
	data["RecordTypes"] = recordTypeOptions()
	data["Flash"] = r.URL.Query().Get("msg")

	records, stale, err := h.dns.ListRecords(r.Context(), bearerOf(s), zoneID)
	if err != nil && !stale {
		data["Error"] = "Failed to load records: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}
	if stale {
		data["Warning"] = staleNotice(err)
	}
	data["Records"] = records
	h.tmpl.ExecuteTemplate(w, "layout", data)
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	zoneID := r.PathValue("zoneID")
	s := h.sessionMgr.Current(r)
	_ = r.ParseForm()

	rec := controlplane.Record{
		Name:       r.FormValue("name"),
		RecordType: r.FormValue("type"),
		Value:      r.FormValue("value"),
		TTL:        parseTTL(r.FormValue("ttl")),
	}

	if err := h.dns.CreateRecord(r.Context(), bearerOf(s), zoneID, rec); err != nil {
		data := viewData("Records", s)
		data["Base"] = h.base
		data["ZoneID"] = zoneID
		data["RecordTypes"] = recordTypeOptions()
		data["Error"] = "Failed to create record: " + err.Error()
		data["Form"] = rec
		if records, stale, lerr := h.dns.ListRecords(r.Context(), bearerOf(s), zoneID); lerr == nil || stale {
			data["Records"] = records
		}
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	_ = h.db.LogAudit(model.AuditEntry{
		Username:   usernameOf(s),
		Action:     "create_record",
		ZoneID:     zoneID,
		RecordName: rec.Name,
		RecordType: rec.RecordType,
		Detail:     fmt.Sprintf("value=%s ttl=%d", rec.Value, rec.TTL),
		IPAddress:  util.GetClientIP(r),
	})

	http.Redirect(w, r, h.listPath(zoneID)+"?msg="+url.QueryEscape("Record created"), http.StatusSeeOther)
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	zoneID := r.PathValue("zoneID")
	s := h.sessionMgr.Current(r)
	_ = r.ParseForm()
	recordID := r.FormValue("record_id")

	msg := "Record deleted"
	if err := h.dns.DeleteRecord(r.Context(), bearerOf(s), zoneID, recordID); err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(model.AuditEntry{
			Username:   usernameOf(s),
			Action:     "delete_record",
			ZoneID:     zoneID,
			RecordName: r.FormValue("name"),
			RecordType: r.FormValue("type"),
			IPAddress:  util.GetClientIP(r),
		})
	}

	http.Redirect(w, r, h.listPath(zoneID)+"?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

// parseTTL keeps TTLs positive; anything unparseable falls back to an hour.
func parseTTL(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 3600
	}
	return v
}
