// Package auth содержит бизнес-логику аутентификации и управления
// учётными записями: вход и выход, выпуск и проверку сессий, первичное
// создание администратора и операции администратора над пользователями.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/entry-registry/internal/lib/password"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// Имя и пароль администратора по умолчанию. Известно слабое место:
// пароль обязателен к смене сразу после развёртывания.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по имени или models.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUser возвращает пользователя по UID или models.ErrNotFound.
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// CountAdmins возвращает число администраторов, исключая excludeUID.
	CountAdmins(ctx context.Context, excludeUID string) (int, error)
	// UpdateUserRole меняет роль и возвращает число изменённых строк.
	UpdateUserRole(ctx context.Context, uid, role string) (int, error)
	// RemoveUser удаляет пользователя и возвращает число удалённых строк.
	RemoveUser(ctx context.Context, uid string) (int, error)
}

// SessionRepository описывает контракт для работы с сессиями в базе данных.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	ListSessionIDsByUser(ctx context.Context, userUID string) ([]string, error)
	RemoveSession(ctx context.Context, id string) (int, error)
	RemoveExpiredSessions(ctx context.Context) (int, error)
}

// Cache описывает методы для кэширования проверок сессий.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует аутентификацию на серверных сессиях.
// Авторитетная копия сессии хранится в базе данных, Redis служит
// сквозным кешем проверок.
type Service struct {
	users      UserRepository
	sessions   SessionRepository
	cache      Cache
	sessionTTL time.Duration
	log        *slog.Logger
}

// New создает новый Service.
func New(users UserRepository, sessions SessionRepository, cache Cache, sessionTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		cache:      cache,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

func sessionCacheKey(id string) string {
	return "session:" + id
}

// newSessionID генерирует непрозрачный идентификатор сессии: 256 бит
// случайности в hex-кодировке.
func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Login проверяет учётные данные и выпускает новую сессию. Ответ о
// неизвестном имени и о неверном пароле одинаков: models.ErrInvalidCredentials.
// Сессия записывается в базу до возврата, чтобы клиент сразу мог ею
// пользоваться.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (*models.Session, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now().UTC()
	session := models.Session{
		ID:        id,
		UserUID:   user.UID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(sessionCacheKey(id), session, s.sessionTTL); err != nil {
		s.log.Warn("failed to cache session", sl.Err(err))
	}
	return &session, nil
}

// Logout уничтожает сессию. Отсутствующая сессия не считается ошибкой.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	const op = "auth.Logout"

	if err := s.cache.Invalidate(sessionCacheKey(sessionID)); err != nil {
		s.log.Warn("failed to invalidate session cache", sl.Err(err))
	}
	if _, err := s.sessions.RemoveSession(ctx, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateSession возвращает сессию по идентификатору. Истёкшая или
// отсутствующая сессия даёт models.ErrSessionNotFound; истёкшая запись
// попутно удаляется из базы.
func (s *Service) ValidateSession(ctx context.Context, sessionID string) (*models.Session, error) {
	const op = "auth.ValidateSession"

	var cached models.Session
	found, err := s.cache.Get(sessionCacheKey(sessionID), &cached)
	if err != nil {
		s.log.Warn("session cache lookup failed", sl.Err(err))
	}
	if found && err == nil {
		cached.ID = sessionID
		if cached.Expired(time.Now().UTC()) {
			return nil, models.ErrSessionNotFound
		}
		return &cached, nil
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now().UTC()
	if session.Expired(now) {
		if _, err := s.sessions.RemoveSession(ctx, sessionID); err != nil {
			s.log.Warn("failed to remove expired session", sl.Err(err))
		}
		return nil, models.ErrSessionNotFound
	}

	if err := s.cache.Set(sessionCacheKey(sessionID), *session, session.ExpiresAt.Sub(now)); err != nil {
		s.log.Warn("failed to cache session", sl.Err(err))
	}
	return session, nil
}

// BootstrapAdmin создаёт администратора по умолчанию, если в базе нет ни
// одного пользователя с ролью Admin. Учётные данные пишутся в лог один
// раз с предупреждением о необходимости их сменить.
func (s *Service) BootstrapAdmin(ctx context.Context) error {
	const op = "auth.BootstrapAdmin"

	count, err := s.users.CountAdmins(ctx, "")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.GetHash(defaultAdminPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	uid, err := s.users.CreateUser(ctx, models.User{
		Username:     defaultAdminUsername,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Warn("created default admin account, rotate the password immediately",
		slog.String("username", defaultAdminUsername),
		slog.String("password", defaultAdminPassword),
		slog.String("uid", uid))
	return nil
}

// CreateUser создаёт нового пользователя. Вторая учётная запись с ролью
// Admin и дубликат имени дают models.ErrConflict.
func (s *Service) CreateUser(ctx context.Context, username, rawPassword, role string) (string, error) {
	const op = "auth.CreateUser"

	if role == models.RoleAdmin {
		count, err := s.users.CountAdmins(ctx, "")
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if count > 0 {
			return "", models.ErrConflict
		}
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	uid, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return "", models.ErrConflict
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// ChangeRole меняет роль пользователя. Перевод в Admin допустим, только
// если других администраторов нет — сам пользователь из проверки исключён.
// Назначение уже имеющейся роли ничего не меняет и не считается ошибкой.
func (s *Service) ChangeRole(ctx context.Context, uid, role string) error {
	const op = "auth.ChangeRole"

	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.Role == role {
		return nil
	}

	if role == models.RoleAdmin {
		count, err := s.users.CountAdmins(ctx, uid)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if count > 0 {
			return models.ErrConflict
		}
	}

	affected, err := s.users.UpdateUserRole(ctx, uid, role)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	s.log.Info("user role changed",
		slog.String("uid", uid),
		slog.String("from", user.Role),
		slog.String("to", role))
	return nil
}

// DeleteUser удаляет пользователя вместе с его сессиями: строки в базе
// удаляет хранилище, кешированные копии сессий снимаются здесь, иначе
// удалённый пользователь оставался бы залогиненным до конца TTL.
// Удаление собственной учётной записи запрещено и даёт models.ErrConflict.
func (s *Service) DeleteUser(ctx context.Context, actorUID, uid string) error {
	const op = "auth.DeleteUser"

	if actorUID == uid {
		return models.ErrConflict
	}

	sessionIDs, err := s.sessions.ListSessionIDsByUser(ctx, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := s.users.RemoveUser(ctx, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	for _, id := range sessionIDs {
		if err := s.cache.Invalidate(sessionCacheKey(id)); err != nil {
			s.log.Warn("failed to invalidate session cache", sl.Err(err))
		}
	}
	return nil
}

// ListUsers возвращает всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "auth.ListUsers"

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// CleanupExpiredSessions удаляет истёкшие сессии; вызывается при старте.
func (s *Service) CleanupExpiredSessions(ctx context.Context) {
	removed, err := s.sessions.RemoveExpiredSessions(ctx)
	if err != nil {
		s.log.Warn("failed to remove expired sessions", sl.Err(err))
		return
	}
	if removed > 0 {
		s.log.Info("removed expired sessions", slog.Int("count", removed))
	}
}
