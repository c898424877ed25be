// Package remove реализует HTTP-обработчик удаления записи.
// Удаление несуществующей записи возвращает 404.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// Handler обрабатывает HTTP-запросы удаления записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления записи.
type Service interface {
	Remove(ctx context.Context, id int) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить запись
// @Description Удаляет запись учётной таблицы с указанным идентификатором.
// @Tags Entries
// @Produce  json
// @Param id path int true "Идентификатор записи"
// @Success 200 {object} response.Response "Запись удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /delete/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid entry id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid entry id"))
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("entry not found"))
			return
		}
		log.Error("failed to remove entry", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove entry"))
		return
	}

	log.Info("removed entry", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}
