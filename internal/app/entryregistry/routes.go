// Package entryregistry предоставляет маршруты для основного приложения.
package entryregistry

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/addcolumn"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/create"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/exportexcel"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/exportpdf"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/filter"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/importfile"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/listall"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/remove"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/stats"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/template"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/entry/update"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/pages"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/user/usercreate"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/user/userinfo"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/user/userlist"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/user/userremove"
	"github.com/magabrotheeeer/entry-registry/internal/http/handlers/user/userrole"
	"github.com/magabrotheeeer/entry-registry/internal/http/middlewarectx"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sessioncookie"
	"github.com/magabrotheeeer/entry-registry/internal/models"
	authservice "github.com/magabrotheeeer/entry-registry/internal/services/auth"
	entryservice "github.com/magabrotheeeer/entry-registry/internal/services/entry"
)

// route описывает одну строку таблицы политики доступа: маршрут и роли,
// которым он разрешён.
type route struct {
	method  string
	pattern string
	roles   []string
	handler http.Handler
}

// Группы ролей таблицы политики доступа.
var (
	anyRole = []string{models.RoleAdmin, models.RoleEditor, models.RoleViewer}
	editors = []string{models.RoleAdmin, models.RoleEditor}
	admins  = []string{models.RoleAdmin}
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.Service, entryService *entryservice.Service, codec *sessioncookie.Codec) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.With(middlewarectx.RateLimitMiddleware(logger)).
		Post("/login", login.New(logger, authService, codec).ServeHTTP)
	r.Get("/login", pages.New(logger, "login").ServeHTTP)

	// Страницы: отказ в доступе ведёт на /login
	pageRoutes := []route{
		{http.MethodGet, "/", anyRole, pages.New(logger, "index")},
		{http.MethodGet, "/dashboard", anyRole, pages.New(logger, "dashboard")},
		{http.MethodGet, "/all", anyRole, pages.New(logger, "all")},
		{http.MethodGet, "/filter", anyRole, pages.New(logger, "filter")},
		{http.MethodGet, "/admin-dashboard", admins, pages.New(logger, "admin-dashboard")},
	}
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(logger, authService, codec, true))
		mountRoutes(r, logger, pageRoutes)
	})

	// API: отказ в доступе — структурный ответ 401/403
	apiRoutes := []route{
		{http.MethodPost, "/logout", anyRole, logout.New(logger, authService, codec)},
		{http.MethodGet, "/api/user-info", anyRole, userinfo.New(logger)},
		{http.MethodGet, "/api/all", anyRole, listall.New(logger, entryService)},
		{http.MethodGet, "/api/filter", anyRole, filter.New(logger, entryService)},
		{http.MethodGet, "/api/stats", anyRole, stats.New(logger, entryService)},
		{http.MethodGet, "/export-excel", anyRole, exportexcel.New(logger, entryService)},
		{http.MethodGet, "/export-pdf", anyRole, exportpdf.New(logger, entryService)},
		{http.MethodGet, "/download-template", anyRole, template.New(logger, entryService)},

		{http.MethodPost, "/add", editors, create.New(logger, entryService)},
		{http.MethodPost, "/edit/{id}", editors, update.New(logger, entryService)},
		{http.MethodPost, "/delete/{id}", editors, remove.New(logger, entryService)},
		{http.MethodPost, "/upload", editors, importfile.New(logger, entryService)},

		{http.MethodPost, "/add-column", admins, addcolumn.New(logger, entryService)},
		{http.MethodGet, "/api/users", admins, userlist.New(logger, authService)},
		{http.MethodPost, "/api/users", admins, usercreate.New(logger, authService)},
		{http.MethodPut, "/api/users/{uid}/role", admins, userrole.New(logger, authService)},
		{http.MethodDelete, "/api/users/{uid}", admins, userremove.New(logger, authService)},
	}
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(logger, authService, codec, false))
		mountRoutes(r, logger, apiRoutes)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// mountRoutes вешает строки таблицы политики на роутер, оборачивая каждый
// обработчик проверкой ролей.
func mountRoutes(r chi.Router, logger *slog.Logger, routes []route) {
	for _, rt := range routes {
		r.With(middlewarectx.RequireRoles(logger, rt.roles...)).
			Method(rt.method, rt.pattern, rt.handler)
	}
}
