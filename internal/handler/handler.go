package handler

import (
	"hickoryctl/internal/model"
)

// viewData seeds the template payload every layout-based view shares.
func viewData(title string, s *model.Session) map[string]interface{} {
	data := map[string]interface{}{"Title": title}
	if s != nil {
		data["Username"] = s.Username
		data["Role"] = s.Role
		data["CSRFToken"] = s.CSRFToken
	}
	return data
}

func staleNotice(err error) string {
	return "Refresh from the control plane failed, showing last known data: " + err.Error()
}
