package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"hickoryctl/internal/auth"
	"hickoryctl/internal/config"
	"hickoryctl/internal/controlplane"
	"hickoryctl/internal/database"
	"hickoryctl/internal/handler"
	"hickoryctl/internal/service"
	"hickoryctl/web"
)

func mustParseTemplates(fsys fs.FS, funcMap template.FuncMap, files ...string) *template.Template {
	tmpl := template.New("").Funcs(funcMap)
	tmpl, err := tmpl.ParseFS(fsys, files...)
	if err != nil {
		log.Fatalf("Failed to parse templates %v: %v", files, err)
	}
	return tmpl
}

func Start(cfg *config.Config, version string) error {
	db, err := database.Open(cfg.Database.DSN, web.MigrationsFS())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	secret, err := db.EnsureSessionSecret()
	if err != nil {
		return fmt.Errorf("failed to load session secret: %w", err)
	}
	sessionMgr := auth.NewSessionManager(secret, db)

	_ = db.PurgeExpiredSessions()

	cp, err := controlplane.NewClient(cfg.ControlPlane.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to init control plane client: %w", err)
	}
	dns := service.NewDNSService(cp, db)

	tmplFS := web.TemplateFS()

	funcMap := template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"subtract":   func(a, b int) int { return a - b },
		"version":    func() string { return version },
		"formatDate": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
	}

	loginTmpl := mustParseTemplates(tmplFS, funcMap, "templates/login.html")
	setupTmpl := mustParseTemplates(tmplFS, funcMap, "templates/setup.html")
	serversTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/servers.html")
	zonesTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/zones.html")
	recordsTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/records.html")
	georulesTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/georules.html")
	controlTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/control.html")
	adminUsersTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/admin_users.html")
	adminAuditTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/admin_audit.html")

	var ldapClient *auth.LDAPClient
	if cfg.LDAP.Enabled {
		ldapClient = auth.NewLDAPClient(cfg.LDAP)
		log.Println("LDAP authentication enabled")
		log.Printf("LDAP server: %s", cfg.LDAP.URL)
		log.Printf("LDAP groups mapped: %d role(s)", len(cfg.LDAP.GroupMapping))
	}

	setupH := handler.NewSetupHandler(db, setupTmpl)
	authH := handler.NewAuthHandler(cp, cfg.ControlPlane, db, sessionMgr, ldapClient, loginTmpl)
	serverH := handler.NewServerHandler(dns, sessionMgr, db, serversTmpl)
	geoH := handler.NewGeoRuleHandler(dns, sessionMgr, db, georulesTmpl)
	controlH := handler.NewControlHandler(dns, sessionMgr, db, controlTmpl)
	adminH := handler.NewAdminHandler(db, sessionMgr, adminUsersTmpl)
	adminAuditH := handler.NewAdminHandler(db, sessionMgr, adminAuditTmpl)

	// Zones and records render for two sections of the console: the admin
	// tree and the restricted user panel. Same views, different base path.
	adminZoneH := handler.NewZoneHandler(dns, sessionMgr, db, zonesTmpl, "/admin")
	adminRecH := handler.NewRecordHandler(dns, sessionMgr, db, recordsTmpl, "/admin")
	userZoneH := handler.NewZoneHandler(dns, sessionMgr, db, zonesTmpl, "/user")
	userRecH := handler.NewRecordHandler(dns, sessionMgr, db, recordsTmpl, "/user")

	mux := http.NewServeMux()

	mux.Handle("GET /static/", web.StaticHandler())

	mux.HandleFunc("GET /setup", setupH.SetupPage)
	mux.HandleFunc("POST /setup", setupH.SetupSubmit)

	mux.HandleFunc("GET /login", authH.LoginPage)
	mux.HandleFunc("POST /login", authH.LoginSubmit)
	mux.HandleFunc("POST /logout", authH.Logout)

	mux.HandleFunc("GET /user", userZoneH.List)
	mux.HandleFunc("POST /user/zones/create", sessionMgr.ValidateCSRF(userZoneH.Create))
	mux.HandleFunc("GET /user/zones/{zoneID}/records", userRecH.List)
	mux.HandleFunc("POST /user/zones/{zoneID}/records/create", sessionMgr.ValidateCSRF(userRecH.Create))
	mux.HandleFunc("POST /user/zones/{zoneID}/records/delete", sessionMgr.ValidateCSRF(userRecH.Delete))

	mux.HandleFunc("GET /admin/servers", serverH.List)
	mux.HandleFunc("POST /admin/servers/create", sessionMgr.ValidateCSRF(serverH.Create))
	mux.HandleFunc("GET /admin/zones", adminZoneH.List)
	mux.HandleFunc("POST /admin/zones/create", sessionMgr.ValidateCSRF(adminZoneH.Create))
	mux.HandleFunc("GET /admin/zones/{zoneID}/records", adminRecH.List)
	mux.HandleFunc("POST /admin/zones/{zoneID}/records/create", sessionMgr.ValidateCSRF(adminRecH.Create))
	mux.HandleFunc("POST /admin/zones/{zoneID}/records/delete", sessionMgr.ValidateCSRF(adminRecH.Delete))
	mux.HandleFunc("GET /admin/georules", geoH.List)
	mux.HandleFunc("POST /admin/georules/create", sessionMgr.ValidateCSRF(geoH.Create))
	mux.HandleFunc("GET /admin/control", controlH.Page)
	mux.HandleFunc("POST /admin/control/start", sessionMgr.ValidateCSRF(controlH.Start))
	mux.HandleFunc("POST /admin/control/stop", sessionMgr.ValidateCSRF(controlH.Stop))
	mux.HandleFunc("GET /admin/users", adminH.ListUsers)
	mux.HandleFunc("POST /admin/users/create", sessionMgr.ValidateCSRF(adminH.CreateUser))
	mux.HandleFunc("POST /admin/users/delete", sessionMgr.ValidateCSRF(adminH.DeleteUser))
	mux.HandleFunc("GET /admin/audit", adminAuditH.AuditLog)

	// Anything the guard let through but no route claims funnels back to the
	// root, which always resolves by session state.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Console starting on %s", addr)
	return http.ListenAndServe(addr, sessionMgr.Guard(mux))
}
