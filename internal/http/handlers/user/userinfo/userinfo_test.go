package userinfo

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/entry-registry/internal/http/middlewarectx"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

func TestUserInfoHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	handler := New(logger)

	t.Run("возвращает имя и роль из контекста", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user-info", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.User, "admin")
		ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleAdmin)
		req = req.WithContext(ctx)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"admin"`)
		assert.Contains(t, w.Body.String(), `"role":"Admin"`)
	})

	t.Run("без контекста пользователя — 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user-info", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
