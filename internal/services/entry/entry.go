// Package entry содержит бизнес-логику работы с учётной таблицей:
// CRUD записей, фильтрацию по проверенному списку колонок, агрегаты по
// городам, расширение схемы и пакетную загрузку из электронных таблиц,
// а также сборку выгрузок в xlsx и PDF.
package entry

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
	"github.com/magabrotheeeer/entry-registry/internal/pdf"
	"github.com/magabrotheeeer/entry-registry/internal/xlsx"
)

// identPattern — безопасный шаблон идентификатора для новой колонки.
// Имена колонок PostgreSQL ограничены 63 байтами.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// EntryRepository определяет методы для работы с таблицей entries в хранилище.
type EntryRepository interface {
	// CreateEntry добавляет новую запись и возвращает её ID.
	CreateEntry(ctx context.Context, entry models.Entry) (int, error)
	// UpdateEntry заменяет запись по ID и возвращает число изменённых строк.
	UpdateEntry(ctx context.Context, entry models.Entry, id int) (int, error)
	// RemoveEntry удаляет запись по ID и возвращает число удалённых строк.
	RemoveEntry(ctx context.Context, id int) (int, error)
	// ListEntries возвращает все записи со всеми колонками.
	ListEntries(ctx context.Context) (*models.RowSet, error)
	// FilterEntries возвращает записи с подстрочным совпадением по колонке.
	FilterEntries(ctx context.Context, column, pattern string) (*models.RowSet, error)
	// CityStats возвращает сумму количеств по каждому городу.
	CityStats(ctx context.Context) ([]models.CityStat, error)
	// ListEntryColumns возвращает живой список колонок таблицы entries.
	ListEntryColumns(ctx context.Context) ([]string, error)
	// AddEntryColumn добавляет текстовую колонку.
	AddEntryColumn(ctx context.Context, name string) error
}

// Service реализует бизнес-логику учётной таблицы.
type Service struct {
	repo EntryRepository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo EntryRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create добавляет новую запись и возвращает её ID.
func (s *Service) Create(ctx context.Context, entry models.Entry) (int, error) {
	id, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new entry", slog.Int("id", id))
	return id, nil
}

// Update полностью заменяет запись. Отсутствующий ID даёт models.ErrNotFound.
func (s *Service) Update(ctx context.Context, id int, entry models.Entry) error {
	affected, err := s.repo.UpdateEntry(ctx, entry, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Remove удаляет запись. Отсутствующий ID даёт models.ErrNotFound.
func (s *Service) Remove(ctx context.Context, id int) error {
	affected, err := s.repo.RemoveEntry(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListAll возвращает все записи со всеми колонками.
func (s *Service) ListAll(ctx context.Context) (*models.RowSet, error) {
	return s.repo.ListEntries(ctx)
}

// Filter возвращает записи, значение колонки column которых содержит
// pattern без учёта регистра. Имя колонки сверяется с живым списком
// колонок таблицы: неизвестное имя отклоняется до построения запроса.
func (s *Service) Filter(ctx context.Context, column, pattern string) (*models.RowSet, error) {
	canonical, err := s.resolveColumn(ctx, column)
	if err != nil {
		return nil, err
	}
	return s.repo.FilterEntries(ctx, canonical, pattern)
}

// Stats возвращает агрегаты по городам.
func (s *Service) Stats(ctx context.Context) ([]models.CityStat, error) {
	return s.repo.CityStats(ctx)
}

// Columns возвращает живой список колонок таблицы entries.
func (s *Service) Columns(ctx context.Context) ([]string, error) {
	return s.repo.ListEntryColumns(ctx)
}

// AddColumn добавляет новую текстовую колонку. Имя обязано быть
// безопасным идентификатором и не совпадать с существующей колонкой.
func (s *Service) AddColumn(ctx context.Context, name string) error {
	if !identPattern.MatchString(name) {
		return models.ErrBadColumnName
	}
	canonical := strings.ToLower(name)

	columns, err := s.repo.ListEntryColumns(ctx)
	if err != nil {
		return err
	}
	for _, col := range columns {
		if col == canonical {
			return models.ErrConflict
		}
	}

	if err := s.repo.AddEntryColumn(ctx, canonical); err != nil {
		return err
	}
	s.log.Info("added entries column", slog.String("column", canonical))
	return nil
}

// Import разбирает загруженную книгу и вставляет строки по одной.
// Каждая строка — отдельная единица работы: сбой строки не откатывает
// остальные. Ошибка возвращается, если книга не читается или если не
// удалось вставить ни одной строки при непустом файле.
func (s *Service) Import(ctx context.Context, fileBytes []byte) (*models.ImportResult, error) {
	const op = "entry.Import"

	entries, malformed, err := xlsx.ReadEntries(fileBytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &models.ImportResult{Failed: malformed}
	for _, e := range entries {
		if _, err := s.repo.CreateEntry(ctx, e); err != nil {
			s.log.Warn("failed to insert imported row", sl.Err(err))
			result.Failed++
			continue
		}
		result.Inserted++
	}

	if result.Inserted == 0 && result.Failed > 0 {
		return result, fmt.Errorf("%s: all %d rows failed", op, result.Failed)
	}
	s.log.Info("import finished",
		slog.Int("inserted", result.Inserted),
		slog.Int("failed", result.Failed))
	return result, nil
}

// ExportExcel выгружает записи в xlsx. Непустые column и pattern
// применяют тот же контракт фильтрации, что и Filter.
func (s *Service) ExportExcel(ctx context.Context, column, pattern string) ([]byte, error) {
	rs, err := s.rowSet(ctx, column, pattern)
	if err != nil {
		return nil, err
	}
	return xlsx.WriteRowSet(rs)
}

// ExportPDF выгружает записи в PDF-отчёт с тем же контрактом фильтрации.
func (s *Service) ExportPDF(ctx context.Context, column, pattern string) ([]byte, error) {
	rs, err := s.rowSet(ctx, column, pattern)
	if err != nil {
		return nil, err
	}
	return pdf.Render(rs, time.Now())
}

// Template возвращает xlsx-шаблон для пакетной загрузки.
func (s *Service) Template() ([]byte, error) {
	return xlsx.WriteTemplate()
}

func (s *Service) rowSet(ctx context.Context, column, pattern string) (*models.RowSet, error) {
	if column == "" {
		return s.repo.ListEntries(ctx)
	}
	return s.Filter(ctx, column, pattern)
}

// resolveColumn сверяет имя колонки с живым списком колонок таблицы и
// возвращает каноническое имя из схемы.
func (s *Service) resolveColumn(ctx context.Context, column string) (string, error) {
	columns, err := s.repo.ListEntryColumns(ctx)
	if err != nil {
		return "", err
	}
	for _, col := range columns {
		if strings.EqualFold(col, column) {
			return col, nil
		}
	}
	return "", models.ErrUnknownColumn
}
