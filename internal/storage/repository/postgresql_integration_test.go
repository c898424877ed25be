package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/entry-registry/internal/models"
)

func TestStorage_CreateUser(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name: "successful create user",
			user: models.User{
				Username:     "editor1",
				PasswordHash: "hashedpassword",
				Role:         models.RoleEditor,
			},
			wantErr: nil,
			setup:   func(_ *testing.T, _ *TestDataFactory) {},
		},
		{
			name: "duplicate username",
			user: models.User{
				Username:     "editor1",
				PasswordHash: "hashedpassword",
				Role:         models.RoleViewer,
			},
			wantErr: models.ErrConflict,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, "editor1", "hashedpassword", models.RoleEditor)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			uid, err := storage.CreateUser(context.Background(), tt.user)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, uid)
			}
		})
	}
}

func TestStorage_GetUserByUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantRole string
		wantErr  error
		setup    func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:     "successful get user",
			username: "admin",
			wantRole: models.RoleAdmin,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, "admin", "hashedpassword", models.RoleAdmin)
			},
		},
		{
			name:     "non-existing user",
			username: "ghost",
			wantErr:  models.ErrNotFound,
			setup:    func(_ *testing.T, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.GetUserByUsername(context.Background(), tt.username)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.username, got.Username)
				assert.Equal(t, tt.wantRole, got.Role)
				assert.NotEmpty(t, got.UID)
			}
		})
	}
}

func TestStorage_CountAdmins(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	adminUID := factory.CreateUser(t, "admin", "hashedpassword", models.RoleAdmin)
	factory.CreateUser(t, "editor1", "hashedpassword", models.RoleEditor)

	count, err := storage.CountAdmins(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Исключение единственного администратора обнуляет счётчик
	count, err = storage.CountAdmins(context.Background(), adminUID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStorage_UpdateUserRole(t *testing.T) {
	tests := []struct {
		name             string
		wantRowsAffected int
		setup            func(t *testing.T, factory *TestDataFactory) string
	}{
		{
			name:             "successful update role",
			wantRowsAffected: 1,
			setup: func(t *testing.T, factory *TestDataFactory) string {
				return factory.CreateUser(t, "viewer1", "hashedpassword", models.RoleViewer)
			},
		},
		{
			name:             "non-existing user",
			wantRowsAffected: 0,
			setup: func(_ *testing.T, _ *TestDataFactory) string {
				return "00000000-0000-0000-0000-000000000000"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			uid := tt.setup(t, factory)

			got, err := storage.UpdateUserRole(context.Background(), uid, models.RoleEditor)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRowsAffected, got)

			if tt.wantRowsAffected > 0 {
				verification := NewTestVerification(storage)
				verification.VerifyUserRole(t, uid, models.RoleEditor)
			}
		})
	}
}

func TestStorage_RemoveUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "viewer1", "hashedpassword", models.RoleViewer)
	sessionID := factory.CreateSession(t, uid, "viewer1", models.RoleViewer, time.Now().Add(time.Hour))

	got, err := storage.RemoveUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	// Сессии пользователя удаляются вместе с учётной записью
	verification := NewTestVerification(storage)
	verification.VerifySessionDeleted(t, sessionID)

	got, err = storage.RemoveUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestStorage_Sessions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "editor1", "hashedpassword", models.RoleEditor)

	session := models.Session{
		ID:        "opaque-session-id",
		UserUID:   uid,
		Username:  "editor1",
		Role:      models.RoleEditor,
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, storage.CreateSession(context.Background(), session))

	got, err := storage.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Username, got.Username)
	assert.Equal(t, session.Role, got.Role)
	assert.Equal(t, uid, got.UserUID)

	_, err = storage.GetSession(context.Background(), "unknown")
	require.ErrorIs(t, err, models.ErrSessionNotFound)

	removed, err := storage.RemoveSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = storage.GetSession(context.Background(), session.ID)
	require.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestStorage_ListSessionIDsByUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "editor1", "hashedpassword", models.RoleEditor)
	other := factory.CreateUser(t, "viewer1", "hashedpassword", models.RoleViewer)
	first := factory.CreateSession(t, uid, "editor1", models.RoleEditor, time.Now().Add(time.Hour))
	second := factory.CreateSession(t, uid, "editor1", models.RoleEditor, time.Now().Add(2*time.Hour))
	factory.CreateSession(t, other, "viewer1", models.RoleViewer, time.Now().Add(time.Hour))

	got, err := storage.ListSessionIDsByUser(context.Background(), uid)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first, second}, got)

	got, err = storage.ListSessionIDsByUser(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStorage_RemoveExpiredSessions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "editor1", "hashedpassword", models.RoleEditor)
	expired := factory.CreateSession(t, uid, "editor1", models.RoleEditor, time.Now().Add(-time.Hour))
	alive := factory.CreateSession(t, uid, "editor1", models.RoleEditor, time.Now().Add(time.Hour))

	removed, err := storage.RemoveExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	verification := NewTestVerification(storage)
	verification.VerifySessionDeleted(t, expired)

	_, err = storage.GetSession(context.Background(), alive)
	require.NoError(t, err)
}

func TestStorage_CreateEntry(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	entry := models.Entry{
		CustomerName: "ACME",
		Address:      "1 Main St",
		City:         "Pune",
		ProductName:  "Pump",
		ModelNo:      "X-100",
		KW:           2.5,
		TankVolume:   50,
		Qty:          3,
	}

	id, err := storage.CreateEntry(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	verification := NewTestVerification(storage)
	verification.VerifyEntryExists(t, id)
}

func TestStorage_UpdateEntry(t *testing.T) {
	tests := []struct {
		name             string
		wantRowsAffected int
		setup            func(t *testing.T, factory *TestDataFactory) int
	}{
		{
			name:             "successful update entry",
			wantRowsAffected: 1,
			setup: func(t *testing.T, factory *TestDataFactory) int {
				return factory.CreateEntry(t, "ACME", "Pune", "Pump", 3)
			},
		},
		{
			name:             "non-existing entry",
			wantRowsAffected: 0,
			setup: func(t *testing.T, factory *TestDataFactory) int {
				factory.CreateEntry(t, "ACME", "Pune", "Pump", 3)
				return 9999
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			id := tt.setup(t, factory)

			got, err := storage.UpdateEntry(context.Background(), models.Entry{
				CustomerName: "Globex",
				City:         "Mumbai",
				Qty:          7,
			}, id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRowsAffected, got)
		})
	}
}

func TestStorage_RemoveEntry(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	id := factory.CreateEntry(t, "ACME", "Pune", "Pump", 3)

	got, err := storage.RemoveEntry(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	verification := NewTestVerification(storage)
	verification.VerifyEntryDeleted(t, id)

	got, err = storage.RemoveEntry(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestStorage_ListEntries(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateEntry(t, "ACME", "Pune", "Pump", 3)
	factory.CreateEntry(t, "Globex", "Mumbai", "Tank", 5)

	got, err := storage.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.Rows, 2)
	assert.Contains(t, got.Columns, "customername")
	assert.Contains(t, got.Columns, "qty")
}

func TestStorage_FilterEntries(t *testing.T) {
	tests := []struct {
		name      string
		column    string
		pattern   string
		wantCount int
	}{
		{
			name:      "partial match is case-insensitive",
			column:    "city",
			pattern:   "pun",
			wantCount: 2,
		},
		{
			name:      "numeric column matched as text",
			column:    "qty",
			pattern:   "5",
			wantCount: 1,
		},
		{
			name:      "no matches",
			column:    "customername",
			pattern:   "nonexistent",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			factory.CreateEntry(t, "ACME", "Pune", "Pump", 3)
			factory.CreateEntry(t, "Globex", "PUNE", "Tank", 5)
			factory.CreateEntry(t, "Initech", "Mumbai", "Valve", 1)

			got, err := storage.FilterEntries(context.Background(), tt.column, tt.pattern)
			require.NoError(t, err)
			assert.Len(t, got.Rows, tt.wantCount)
		})
	}
}

func TestStorage_CityStats(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateEntry(t, "ACME", "Pune", "Pump", 3)
	factory.CreateEntry(t, "Globex", "Pune", "Tank", 5)
	factory.CreateEntry(t, "Initech", "Mumbai", "Valve", 1)

	got, err := storage.CityStats(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	totals := make(map[string]int64, len(got))
	for _, stat := range got {
		totals[stat.City] = stat.TotalQty
	}
	assert.Equal(t, int64(8), totals["Pune"])
	assert.Equal(t, int64(1), totals["Mumbai"])
}

func TestStorage_AddEntryColumn(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateEntry(t, "ACME", "Pune", "Pump", 3)

	require.NoError(t, storage.AddEntryColumn(context.Background(), "remarks"))

	columns, err := storage.ListEntryColumns(context.Background())
	require.NoError(t, err)
	assert.Contains(t, columns, "remarks")

	// Новая колонка сразу видна в выборках
	got, err := storage.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Contains(t, got.Columns, "remarks")

	// Повторное добавление завершается ошибкой на уровне БД
	err = storage.AddEntryColumn(context.Background(), "remarks")
	require.Error(t, err)
}

func TestStorage_ListEntryColumns(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	columns, err := storage.ListEntryColumns(context.Background())
	require.NoError(t, err)

	// Колонки возвращаются в порядке их позиций в таблице
	require.GreaterOrEqual(t, len(columns), 9)
	assert.Equal(t, "id", columns[0])
	assert.Equal(t, "customername", columns[1])
}

func TestCheckDatabaseReady(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(t *testing.T, storage *Storage)
		wantError    bool
		errorContain string
	}{
		{
			name: "table exists",
			setup: func(_ *testing.T, _ *Storage) {
				// Таблица entries уже создаётся в setupTestDatabase
			},
			wantError: false,
		},
		{
			name: "table missing",
			setup: func(t *testing.T, storage *Storage) {
				_, err := storage.DB.Exec(`DROP TABLE IF EXISTS entries CASCADE`)
				require.NoError(t, err)
			},
			wantError:    true,
			errorContain: "missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()
			tt.setup(t, storage)

			err := CheckDatabaseReady(storage)
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContain)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
