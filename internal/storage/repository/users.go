package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// uniqueViolation — код ошибки PostgreSQL для нарушения уникальности.
const uniqueViolation = "23505"

// CreateUser сохраняет нового пользователя и возвращает его UID.
// При дубликате имени пользователя возвращает models.ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, password_hash, role)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Role).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("%s: %w", op, models.ErrConflict)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
// Если пользователь не найден, возвращает models.ErrNotFound.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, role, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, role, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, uid)
	if err := row.Scan(&u.UID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, отсортированных по дате создания.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, role, created_at
			  FROM users
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err = rows.Scan(&u.UID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountAdmins возвращает количество пользователей с ролью Admin,
// исключая пользователя excludeUID (пустая строка — никого не исключать).
func (s *Storage) CountAdmins(ctx context.Context, excludeUID string) (int, error) {
	const op = "storage.CountAdmins"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM users
			  WHERE role = $1 AND ($2 = '' OR uid::text <> $2)`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, models.RoleAdmin, excludeUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateUserRole меняет роль пользователя и возвращает количество изменённых строк.
func (s *Storage) UpdateUserRole(ctx context.Context, uid, role string) (int, error) {
	const op = "storage.UpdateUserRole"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET role = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, role, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveUser удаляет пользователя вместе с его сессиями и возвращает
// количество удалённых строк users.
func (s *Storage) RemoveUser(ctx context.Context, uid string) (int, error) {
	const op = "storage.RemoveUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE user_uid = $1`, uid); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
