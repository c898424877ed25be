// Package middlewarectx содержит HTTP middleware доступа: проверку
// сессионной куки с занесением пользователя в контекст запроса, проверку
// роли по декларативной таблице политик и ограничитель частоты входа.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sessioncookie"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// SessionID — ключ для идентификатора сессии в контексте
	SessionID Key = "session_id"
)

// Service описывает интерфейс сервиса проверки сессии.
type Service interface {
	ValidateSession(ctx context.Context, sessionID string) (*models.Session, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет
// сессионную куку. При валидной сессии в контекст запроса добавляются
// имя пользователя, роль, UID и идентификатор сессии. При невалидной —
// страницы получают редирект на /login, API-маршруты — 401 с JSON-телом.
func SessionMiddleware(log *slog.Logger, service Service, codec *sessioncookie.Codec, redirect bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			deny := func() {
				if redirect {
					http.Redirect(w, r, "/login", http.StatusFound)
					return
				}
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
			}

			sessionID, err := codec.Read(r)
			if err != nil {
				log.Info("missing or invalid session cookie", sl.Err(err))
				deny()
				return
			}

			session, err := service.ValidateSession(r.Context(), sessionID)
			if err != nil {
				log.Info("session rejected", sl.Err(err))
				deny()
				return
			}

			ctx := context.WithValue(r.Context(), User, session.Username)
			ctx = context.WithValue(ctx, Role, session.Role)
			ctx = context.WithValue(ctx, UserUID, session.UserUID)
			ctx = context.WithValue(ctx, SessionID, session.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
