// Package template реализует HTTP-обработчик выдачи шаблона импорта:
// пустого xlsx-файла с эталонной строкой заголовков.
package template

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы шаблона импорта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики шаблона импорта.
type Service interface {
	Template() ([]byte, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Шаблон импорта
// @Description Возвращает пустой xlsx-файл с заголовками для пакетной загрузки.
// @Tags Export
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Файл шаблона"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /download-template [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.template"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	data, err := h.service.Template()
	if err != nil {
		log.Error("failed to build template", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build template"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="template.xlsx"`)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write response", sl.Err(err))
	}
}
