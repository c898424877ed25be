package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// ListEntryColumns возвращает имена колонок таблицы entries в порядке их
// объявления. Список запрашивается из information_schema при каждом
// обращении, чтобы динамически добавленные колонки были видны сразу.
func (s *Storage) ListEntryColumns(ctx context.Context) ([]string, error) {
	const op = "storage.ListEntryColumns"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT column_name
			  FROM information_schema.columns
			  WHERE table_name = 'entries'
			  ORDER BY ordinal_position`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AddEntryColumn добавляет к таблице entries новую текстовую колонку.
// Имя колонки обязано пройти проверку идентификатора в сервисном слое.
func (s *Storage) AddEntryColumn(ctx context.Context, name string) error {
	const op = "storage.AddEntryColumn"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`ALTER TABLE entries ADD COLUMN %s TEXT`, quoteIdent(name))
	if _, err := s.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// quoteIdent экранирует идентификатор для позиции имени колонки.
// Значение к этому моменту уже прошло проверку по списку колонок либо по
// шаблону идентификатора, кавычки — второй рубеж.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// scanRowSet читает строки произвольной выборки в RowSet, сохраняя
// порядок колонок. Байтовые значения приводятся к строкам.
func scanRowSet(rows *sql.Rows) (*models.RowSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &models.RowSet{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err = rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
