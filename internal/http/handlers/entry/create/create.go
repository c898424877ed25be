// Package create реализует HTTP-обработчик добавления записи.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// Handler обрабатывает HTTP-запросы добавления записей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики добавления записи.
type Service interface {
	Create(ctx context.Context, entry models.Entry) (int, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить запись
// @Description Создаёт новую запись учётной таблицы и возвращает её идентификатор.
// @Tags Entries
// @Accept  json
// @Produce  json
// @Param request body models.Entry true "Данные записи"
// @Success 200 {object} map[string]any "Идентификатор созданной записи"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /add [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.Entry
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create entry", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create entry"))
		return
	}

	log.Info("created entry", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
