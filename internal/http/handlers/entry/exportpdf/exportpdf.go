// Package exportpdf реализует HTTP-обработчик выгрузки записей в PDF.
// Необязательные параметры column и value сужают выгрузку так же,
// как фильтр записей.
package exportpdf

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

// Handler обрабатывает HTTP-запросы выгрузки в PDF.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выгрузки в PDF.
type Service interface {
	ExportPDF(ctx context.Context, column, pattern string) ([]byte, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выгрузка в PDF
// @Description Возвращает PDF-отчёт с записями, при указании column и value — отфильтрованными.
// @Tags Export
// @Produce  application/pdf
// @Param column query string false "Имя колонки фильтра"
// @Param value query string false "Искомая подстрока"
// @Success 200 {file} binary "Файл PDF"
// @Failure 400 {object} response.ErrorResponse "Неизвестная колонка"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /export-pdf [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.exportpdf"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	column := r.URL.Query().Get("column")
	value := r.URL.Query().Get("value")

	data, err := h.service.ExportPDF(r.Context(), column, value)
	if err != nil {
		if errors.Is(err, models.ErrUnknownColumn) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown column"))
			return
		}
		log.Error("failed to export pdf", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not export entries"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="entries.pdf"`)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write response", sl.Err(err))
	}
}
