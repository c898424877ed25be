// Package userrole реализует HTTP-обработчик смены роли пользователя.
// Перевод в Admin допустим, только если других администраторов нет —
// сам пользователь из проверки исключается.
package userrole

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// Request — структура входных данных для смены роли.
type Request struct {
	Role string `json:"role" validate:"required,oneof=Admin Editor Viewer"`
}

// Handler обрабатывает HTTP-запросы смены роли.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены роли.
type Service interface {
	ChangeRole(ctx context.Context, uid, role string) error
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
// @Summary Сменить роль пользователя
// @Description Меняет роль учётной записи с повторной проверкой инварианта одного администратора.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param request body Request true "Новая роль"
// @Success 200 {object} response.Response "Роль изменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или конфликт"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/users/{uid}/role [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.userrole"
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

	if err := h.service.ChangeRole(r.Context(), uid, req.Role); err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			log.Info("role change conflict", slog.String("uid", uid))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("admin already exists"))
		case errors.Is(err, models.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to change role", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not change role"))
		}
		return
	}

	log.Info("changed role", slog.String("uid", uid), slog.String("role", req.Role))
	render.JSON(w, r, response.OK())
}
