package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// CreateEntry вставляет новую запись и возвращает её ID.
func (s *Storage) CreateEntry(ctx context.Context, entry models.Entry) (int, error) {
	const op = "storage.CreateEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO entries (customername, address, city, productname,
			      modelno, kw, tankvolume, qty)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		entry.CustomerName, entry.Address, entry.City, entry.ProductName,
		entry.ModelNo, entry.KW, entry.TankVolume, entry.Qty).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateEntry полностью заменяет запись по ID и возвращает количество
// изменённых строк.
func (s *Storage) UpdateEntry(ctx context.Context, entry models.Entry, id int) (int, error) {
	const op = "storage.UpdateEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE entries
			  SET customername = $1, address = $2, city = $3, productname = $4,
			      modelno = $5, kw = $6, tankvolume = $7, qty = $8
			  WHERE id = $9`
	result, err := s.DB.ExecContext(ctx, query,
		entry.CustomerName, entry.Address, entry.City, entry.ProductName,
		entry.ModelNo, entry.KW, entry.TankVolume, entry.Qty, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveEntry удаляет запись по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveEntry(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListEntries возвращает все записи таблицы entries вместе с динамически
// добавленными колонками. Порядок строк — порядок выдачи хранилища.
func (s *Storage) ListEntries(ctx context.Context) (*models.RowSet, error) {
	const op = "storage.ListEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT * FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := scanRowSet(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FilterEntries возвращает записи, у которых значение колонки column
// содержит pattern без учёта регистра. Имя колонки должно быть заранее
// проверено по списку колонок таблицы — сюда попадают только известные имена.
func (s *Storage) FilterEntries(ctx context.Context, column, pattern string) (*models.RowSet, error) {
	const op = "storage.FilterEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT * FROM entries WHERE %s::text ILIKE $1`, quoteIdent(column))
	rows, err := s.DB.QueryContext(ctx, query, "%"+pattern+"%")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := scanRowSet(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CityStats возвращает для каждого города суммарное количество по всем записям.
func (s *Storage) CityStats(ctx context.Context) ([]models.CityStat, error) {
	const op = "storage.CityStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT city, COALESCE(SUM(qty), 0) AS totalqty
			  FROM entries
			  GROUP BY city`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.CityStat
	for rows.Next() {
		var stat models.CityStat
		var city *string
		if err = rows.Scan(&city, &stat.TotalQty); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if city != nil {
			stat.City = *city
		}
		result = append(result, stat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
