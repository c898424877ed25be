// Package exportexcel реализует HTTP-обработчик выгрузки записей в xlsx.
// Необязательные параметры column и value сужают выгрузку так же,
// как фильтр записей.
package exportexcel

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

// Handler обрабатывает HTTP-запросы выгрузки в xlsx.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выгрузки в xlsx.
type Service interface {
	ExportExcel(ctx context.Context, column, pattern string) ([]byte, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выгрузка в Excel
// @Description Возвращает xlsx-файл с записями, при указании column и value — отфильтрованными.
// @Tags Export
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param column query string false "Имя колонки фильтра"
// @Param value query string false "Искомая подстрока"
// @Success 200 {file} binary "Файл xlsx"
// @Failure 400 {object} response.ErrorResponse "Неизвестная колонка"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /export-excel [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.exportexcel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	column := r.URL.Query().Get("column")
	value := r.URL.Query().Get("value")

	data, err := h.service.ExportExcel(r.Context(), column, value)
	if err != nil {
		if errors.Is(err, models.ErrUnknownColumn) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown column"))
			return
		}
		log.Error("failed to export excel", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not export entries"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="entries.xlsx"`)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write response", sl.Err(err))
	}
}
