package usercreate

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// MockService реализует интерфейс usercreate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateUser(ctx context.Context, username, password, role string) (string, error) {
	args := m.Called(ctx, username, password, role)
	return args.String(0), args.Error(1)
}

func TestUserCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание",
			body: `{"username":"editor1","password":"secret123","role":"Editor"}`,
			setupMock: func(m *MockService) {
				m.On("CreateUser", mock.Anything, "editor1", "secret123", "Editor").Return("uid-2", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"uid":"uid-2"`,
		},
		{
			name: "второй администратор отклоняется",
			body: `{"username":"admin2","password":"secret123","role":"Admin"}`,
			setupMock: func(m *MockService) {
				m.On("CreateUser", mock.Anything, "admin2", "secret123", "Admin").Return("", models.ErrConflict)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `admin already exists`,
		},
		{
			name: "дубликат имени",
			body: `{"username":"editor1","password":"secret123","role":"Viewer"}`,
			setupMock: func(m *MockService) {
				m.On("CreateUser", mock.Anything, "editor1", "secret123", "Viewer").Return("", models.ErrConflict)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "неизвестная роль",
			body:           `{"username":"editor1","password":"secret123","role":"Boss"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Role has an unsupported value`,
		},
		{
			name:           "некорректный JSON",
			body:           `{`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
