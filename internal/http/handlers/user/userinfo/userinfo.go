// Package userinfo реализует HTTP-обработчик, возвращающий имя и роль
// текущего пользователя из контекста запроса.
package userinfo

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entry-registry/internal/http/middlewarectx"
	"github.com/magabrotheeeer/entry-registry/internal/http/response"
)

// Handler обрабатывает HTTP-запросы сведений о текущем пользователе.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Сведения о текущем пользователе
// @Description Возвращает имя пользователя и роль активной сессии.
// @Tags Users
// @Produce  json
// @Success 200 {object} map[string]any "Имя и роль"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /api/user-info [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.userinfo"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, okUser := r.Context().Value(middlewarectx.User).(string)
	role, okRole := r.Context().Value(middlewarectx.Role).(string)
	if !okUser || !okRole || username == "" {
		log.Error("user identity missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"username": username,
		"role":     role,
	}))
}
