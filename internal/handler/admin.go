package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"hickoryctl/internal/auth"
	"hickoryctl/internal/database"
	"hickoryctl/internal/model"
	"hickoryctl/internal/util"
)

// AdminHandler manages local console operators and the audit log.
type AdminHandler struct {
	db         *database.DB
	sessionMgr *auth.SessionManager
	tmpl       *template.Template
}

func NewAdminHandler(db *database.DB, sm *auth.SessionManager, tmpl *template.Template) *AdminHandler {
	return &AdminHandler{db: db, sessionMgr: sm, tmpl: tmpl}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	data := viewData("Users", s)

	users, err := h.db.ListUsers()
	if err != nil {
		data["Error"] = "Failed to load users: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	data["Users"] = users
	data["Flash"] = r.URL.Query().Get("msg")
	h.tmpl.ExecuteTemplate(w, "layout", data)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s := h.sessionMgr.Current(r)
	newUsername := r.FormValue("username")
	password := r.FormValue("password")
	role := r.FormValue("role")

	if role != model.RoleAdmin && role != model.RoleUser {
		role = model.RoleUser
	}

	msg := fmt.Sprintf("User %q created successfully", newUsername)
	if err := h.db.CreateUser(newUsername, password, role); err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(model.AuditEntry{
			Username:  usernameOf(s),
			Action:    "create_user",
			Detail:    fmt.Sprintf("created user=%s role=%s", newUsername, role),
			IPAddress: util.GetClientIP(r),
		})
	}

	http.Redirect(w, r, "/admin/users?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s := h.sessionMgr.Current(r)
	targetUser := r.FormValue("username")

	if targetUser == usernameOf(s) {
		http.Redirect(w, r, "/admin/users?msg=Cannot+delete+yourself", http.StatusSeeOther)
		return
	}

	msg := fmt.Sprintf("User %q deleted", targetUser)
	if err := h.db.DeleteUser(targetUser); err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(model.AuditEntry{
			Username:  usernameOf(s),
			Action:    "delete_user",
			Detail:    fmt.Sprintf("deleted user=%s", targetUser),
			IPAddress: util.GetClientIP(r),
		})
	}

	http.Redirect(w, r, "/admin/users?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	s := h.sessionMgr.Current(r)
	data := viewData("Audit Log", s)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := 50
	offset := (page - 1) * limit

	entries, total, err := h.db.ListAuditLog(limit, offset)
	if err != nil {
		data["Error"] = "Failed to load audit log: " + err.Error()
		h.tmpl.ExecuteTemplate(w, "layout", data)
		return
	}

	data["Entries"] = entries
	data["Page"] = page
	data["TotalPages"] = (total + limit - 1) / limit
	data["Total"] = total
	h.tmpl.ExecuteTemplate(w, "layout", data)
}
