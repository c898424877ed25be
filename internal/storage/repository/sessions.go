package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// CreateSession сохраняет новую сессию. Запись должна быть зафиксирована
// до того, как клиенту вернётся успешный ответ на вход.
func (s *Storage) CreateSession(ctx context.Context, session models.Session) error {
	const op = "storage.CreateSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO sessions (id, user_uid, username, role, expires_at)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		session.ID, session.UserUID, session.Username, session.Role, session.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSession возвращает сессию по её идентификатору.
// Если сессия не найдена, возвращает models.ErrSessionNotFound.
func (s *Storage) GetSession(ctx context.Context, id string) (*models.Session, error) {
	const op = "storage.GetSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, role, expires_at, created_at
			  FROM sessions
			  WHERE id = $1`
	session := &models.Session{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&session.ID, &session.UserUID, &session.Username,
		&session.Role, &session.ExpiresAt, &session.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

// ListSessionIDsByUser возвращает идентификаторы всех сессий пользователя.
// Используется при удалении учётной записи, чтобы снять сессии и из кеша.
func (s *Storage) ListSessionIDsByUser(ctx context.Context, userUID string) ([]string, error) {
	const op = "storage.ListSessionIDsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id FROM sessions WHERE user_uid = $1`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveSession удаляет сессию и возвращает количество удалённых строк.
func (s *Storage) RemoveSession(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveSession"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveExpiredSessions удаляет все истёкшие сессии.
func (s *Storage) RemoveExpiredSessions(ctx context.Context) (int, error) {
	const op = "storage.RemoveExpiredSessions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
