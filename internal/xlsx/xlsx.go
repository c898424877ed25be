// Package xlsx реализует работу с электронными таблицами: разбор
// загруженного файла для пакетной вставки, выгрузку текущего набора
// строк и генерацию шаблона для заполнения.
package xlsx

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// ImportHeaders — ожидаемые заголовки первой строки загружаемого файла.
// Порядок совпадает с шаблоном и с колонками таблицы entries.
var ImportHeaders = []string{
	"Customer Name",
	"Address",
	"City",
	"Product Name",
	"Model No",
	"KW",
	"Tank Volume",
	"Qty",
}

// TemplateSheet — имя листа в шаблоне для загрузки.
const TemplateSheet = "Template"

// ExportSheet — имя листа в полной выгрузке.
const ExportSheet = "Entries"

// ReadEntries разбирает первый лист книги. Каждая строка данных
// сопоставляется с ожидаемыми заголовками; отсутствующие колонки дают
// пустые значения, а строка с нечисловым значением в числовой колонке
// считается неразобранной и попадает в malformed. Ошибка возвращается
// только если книга вообще не читается.
func ReadEntries(data []byte) (entries []models.Entry, malformed int, err error) {
	const op = "xlsx.ReadEntries"

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("%s: workbook has no sheets", op)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}

	headerIndex := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}

	for _, row := range rows[1:] {
		cell := func(header string) string {
			idx, ok := headerIndex[header]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		entry := models.Entry{
			CustomerName: cell("Customer Name"),
			Address:      cell("Address"),
			City:         cell("City"),
			ProductName:  cell("Product Name"),
			ModelNo:      cell("Model No"),
		}

		bad := false
		if raw := cell("KW"); raw != "" {
			if entry.KW, err = strconv.ParseFloat(raw, 64); err != nil {
				bad = true
			}
		}
		if raw := cell("Tank Volume"); raw != "" {
			if entry.TankVolume, err = strconv.ParseFloat(raw, 64); err != nil {
				bad = true
			}
		}
		if raw := cell("Qty"); raw != "" {
			if entry.Qty, err = strconv.Atoi(raw); err != nil {
				bad = true
			}
		}
		if bad {
			malformed++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, malformed, nil
}

// WriteRowSet выгружает набор строк в книгу с одним листом Entries:
// первая строка — имена колонок, далее данные в порядке rs.Rows.
func WriteRowSet(rs *models.RowSet) ([]byte, error) {
	const op = "xlsx.WriteRowSet"

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	header := make([]any, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i, row := range rs.Rows {
		values := make([]any, len(rs.Columns))
		for j, col := range rs.Columns {
			values[j] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := f.SetSheetRow(ExportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

// WriteTemplate генерирует шаблон для загрузки: один лист Template с
// единственной строкой заголовков.
func WriteTemplate() ([]byte, error) {
	const op = "xlsx.WriteTemplate"

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	header := make([]any, len(ImportHeaders))
	for i, h := range ImportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(TemplateSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
