// Package pdf реализует табличный PDF-отчёт по набору строк: альбомный
// A4, фиксированные ширины колонок, заголовок с датой генерации и
// автоматический перенос на новую страницу.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/magabrotheeeer/entry-registry/internal/models"
)

const (
	marginLeft  = 30.0
	headerRowH  = 25.0
	dataRowH    = 20.0
	bottomGuard = 50.0
	firstPageY  = 80.0
	nextPageY   = 50.0
)

// Заголовки и ширины известных колонок таблицы entries.
// Динамически добавленные колонки получают ширину по умолчанию.
var (
	columnTitles = map[string]string{
		"customername": "Customer Name",
		"address":      "Address",
		"city":         "City",
		"productname":  "Product Name",
		"modelno":      "Model No",
		"kw":           "KW",
		"tankvolume":   "Tank Volume",
		"qty":          "Qty",
	}
	columnWidths = map[string]float64{
		"customername": 100,
		"address":      100,
		"city":         80,
		"productname":  100,
		"modelno":      80,
		"kw":           50,
		"tankvolume":   80,
		"qty":          40,
	}
	defaultWidth = 80.0
	serialWidth  = 40.0
)

// Render строит PDF-отчёт по набору строк. Колонка id не выводится,
// вместо неё первая колонка S No — порядковый номер строки в отчёте.
func Render(rs *models.RowSet, generatedAt time.Time) ([]byte, error) {
	const op = "pdf.Render"

	doc := gofpdf.New("L", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	pageW, pageH := doc.GetPageSize()

	var columns []string
	for _, col := range rs.Columns {
		if col == "id" {
			continue
		}
		columns = append(columns, col)
	}

	headers := []string{"S No"}
	widths := []float64{serialWidth}
	for _, col := range columns {
		title, ok := columnTitles[col]
		if !ok {
			title = col
		}
		headers = append(headers, title)
		width, ok := columnWidths[col]
		if !ok {
			width = defaultWidth
		}
		widths = append(widths, width)
	}

	doc.SetXY(marginLeft, 30)
	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(51, 51, 51)
	doc.CellFormat(pageW-2*marginLeft, 24, "Entries Report", "", 1, "C", false, 0, "")

	doc.SetX(marginLeft)
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(102, 102, 102)
	timestamp := "Generated on: " + generatedAt.Format("02 Jan 2006 15:04:05")
	doc.CellFormat(pageW-2*marginLeft, 12, timestamp, "", 1, "R", false, 0, "")

	y := firstPageY
	drawHeader := func() {
		doc.SetFont("Helvetica", "", 10)
		doc.SetTextColor(0, 0, 0)
		doc.SetFillColor(240, 240, 240)
		x := marginLeft
		for i, header := range headers {
			doc.SetXY(x, y)
			doc.CellFormat(widths[i], headerRowH, header, "1", 0, "L", true, 0, "")
			x += widths[i]
		}
		y += headerRowH
	}
	drawHeader()

	doc.SetFont("Helvetica", "", 9)
	for i, row := range rs.Rows {
		if y+dataRowH > pageH-bottomGuard {
			doc.AddPage()
			y = nextPageY
			drawHeader()
			doc.SetFont("Helvetica", "", 9)
		}

		values := []string{strconv.Itoa(i + 1)}
		for _, col := range columns {
			values = append(values, formatValue(row[col]))
		}

		x := marginLeft
		for j, val := range values {
			doc.SetXY(x, y)
			doc.CellFormat(widths[j], dataRowH, val, "1", 0, "L", false, 0, "")
			x += widths[j]
		}
		y += dataRowH
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

// formatValue переводит значение ячейки в строку для отчёта.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
