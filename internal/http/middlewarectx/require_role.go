package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entry-registry/internal/http/response"
)

// RequireRoles возвращает middleware, пропускающий запрос только если
// роль из контекста входит в allowedRoles. Всегда ставится после
// SessionMiddleware: запрос без роли в контексте отклоняется как
// неаутентифицированный, несоответствие роли даёт 403 без редиректа.
func RequireRoles(log *slog.Logger, allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role == "" {
				log.Error("role missing in request context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			if !slices.Contains(allowedRoles, role) {
				log.Info("forbidden", slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
