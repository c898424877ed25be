// Package addcolumn реализует HTTP-обработчик добавления колонки в таблицу
// записей. Операция доступна только администратору; имя колонки проходит
// проверку на безопасный идентификатор и приводится к нижнему регистру.
package addcolumn

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// Request — структура входных данных для добавления колонки.
type Request struct {
	ColumnName string `json:"columnName" validate:"required,min=1,max=63"`
}

// Handler обрабатывает HTTP-запросы добавления колонок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики добавления колонки.
type Service interface {
	AddColumn(ctx context.Context, name string) error
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
// @Summary Добавить колонку
// @Description Расширяет таблицу записей новой текстовой колонкой. Только для администратора.
// @Tags Entries
// @Accept  json
// @Produce  json
// @Param request body Request true "Имя новой колонки"
// @Success 200 {object} response.Response "Колонка добавлена"
// @Failure 400 {object} response.ErrorResponse "Недопустимое имя или колонка уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /add-column [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.addcolumn"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	if err := h.service.AddColumn(r.Context(), req.ColumnName); err != nil {
		switch {
		case errors.Is(err, models.ErrBadColumnName):
			log.Info("rejected column name", slog.String("column", req.ColumnName))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid column name"))
		case errors.Is(err, models.ErrConflict):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("column already exists"))
		default:
			log.Error("failed to add column", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not add column"))
		}
		return
	}

	log.Info("added column", slog.String("column", req.ColumnName))
	render.JSON(w, r, response.OK())
}
