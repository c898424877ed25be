// Package stats реализует HTTP-обработчик статистики по городам.
package stats

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

// Handler обрабатывает HTTP-запросы статистики.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики статистики.
type Service interface {
	Stats(ctx context.Context) ([]models.CityStat, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика по городам
// @Description Возвращает суммарное количество по каждому городу.
// @Tags Entries
// @Produce  json
// @Success 200 {array} models.CityStat "Агрегаты по городам"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to load stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load stats"))
		return
	}

	render.JSON(w, r, stats)
}
