// Package listall реализует HTTP-обработчик выборки всех записей.
// Ответ включает живой список колонок таблицы, в том числе добавленные
// во время работы.
package listall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// Handler обрабатывает HTTP-запросы выборки всех записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки записей.
type Service interface {
	ListAll(ctx context.Context) (*models.RowSet, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Все записи
// @Description Возвращает все записи таблицы вместе со списком её текущих колонок.
// @Tags Entries
// @Produce  json
// @Success 200 {object} models.RowSet "Записи и колонки"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/all [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.listall"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rs, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list entries", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list entries"))
		return
	}

	render.JSON(w, r, rs)
}
