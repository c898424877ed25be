// Package login реализует HTTP-обработчик входа пользователя.
//
// Обработчик принимает JSON с учётными данными, валидирует их, выпускает
// серверную сессию через сервис аутентификации и устанавливает подписанную
// сессионную куку. Сессия записывается в хранилище до успешного ответа.
// Текст ошибки при неверных данных не раскрывает, имя это или пароль.
package login

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
	"github.com/magabrotheeeer/entry-registry/internal/lib/sessioncookie"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// Request — структура входных данных для входа.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger         // Логгер для записи операций и ошибок
	service  Service              // Сервис аутентификации
	codec    *sessioncookie.Codec // Кодек сессионной куки
	validate *validator.Validate  // Валидатор входных данных
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, codec *sessioncookie.Codec) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		codec:    codec,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет учётные данные и устанавливает сессионную куку.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учётные данные пользователя"
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
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

	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			log.Info("login rejected", slog.String("username", req.Username))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not login"))
		return
	}

	if err := h.codec.Set(w, session.ID); err != nil {
		log.Error("failed to set session cookie", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not login"))
		return
	}

	log.Info("login success", slog.String("username", session.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"username": session.Username,
		"role":     session.Role,
	}))
}
