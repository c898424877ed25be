// Package filter реализует HTTP-обработчик фильтрации записей.
// Имя колонки сверяется с живой схемой таблицы, значение ищется
// по частичному совпадению без учёта регистра.
package filter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// Handler обрабатывает HTTP-запросы фильтрации записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики фильтрации.
type Service interface {
	Filter(ctx context.Context, column, pattern string) (*models.RowSet, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Фильтр записей
// @Description Возвращает записи, у которых значение колонки содержит подстроку value.
// @Tags Entries
// @Produce  json
// @Param column query string true "Имя колонки"
// @Param value query string true "Искомая подстрока"
// @Success 200 {object} models.RowSet "Отфильтрованные записи"
// @Failure 400 {object} response.ErrorResponse "Неизвестная колонка или пустые параметры"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/filter [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.filter"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	column := r.URL.Query().Get("column")
	value := r.URL.Query().Get("value")
	if column == "" || value == "" {
		log.Error("missing filter parameters")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("column and value are required"))
		return
	}

	rs, err := h.service.Filter(r.Context(), column, value)
	if err != nil {
		if errors.Is(err, models.ErrUnknownColumn) {
			log.Info("unknown filter column", slog.String("column", column))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown column"))
			return
		}
		log.Error("failed to filter entries", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not filter entries"))
		return
	}

	render.JSON(w, r, rs)
}
