// Package userremove реализует HTTP-обработчик удаления пользователя.
// Администратор не может удалить собственную учётную запись.
package userremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entry-registry/internal/http/middlewarectx"
	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// Handler обрабатывает HTTP-запросы удаления пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления пользователя.
type Service interface {
	DeleteUser(ctx context.Context, actorUID, uid string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Description Удаляет учётную запись. Удаление собственной записи запрещено.
// @Tags Users
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Пользователь удалён"
// @Failure 400 {object} response.ErrorResponse "Попытка удалить себя"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/users/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.userremove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		log.Error("missing uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user uid"))
		return
	}

	actorUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || actorUID == "" {
		log.Error("actor uid missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.DeleteUser(r.Context(), actorUID, uid); err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			log.Info("self-delete rejected", slog.String("uid", uid))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("cannot delete own account"))
		case errors.Is(err, models.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to delete user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete user"))
		}
		return
	}

	log.Info("deleted user", slog.String("uid", uid))
	render.JSON(w, r, response.OK())
}
