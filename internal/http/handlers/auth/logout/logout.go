// Package logout реализует HTTP-обработчик выхода: уничтожение серверной
// сессии и удаление сессионной куки.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entry-registry/internal/http/middlewarectx"
	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sessioncookie"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log     *slog.Logger
	service Service
	codec   *sessioncookie.Codec
}

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	Logout(ctx context.Context, sessionID string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, codec *sessioncookie.Codec) *Handler {
	return &Handler{
		log:     log,
		service: service,
		codec:   codec,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Уничтожает текущую сессию и удаляет сессионную куку.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Успешный выход"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка уничтожения сессии"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID, ok := r.Context().Value(middlewarectx.SessionID).(string)
	if !ok || sessionID == "" {
		log.Error("session id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Logout(r.Context(), sessionID); err != nil {
		log.Error("failed to destroy session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not logout"))
		return
	}

	h.codec.Clear(w)
	log.Info("logout success")
	render.JSON(w, r, response.OK())
}
