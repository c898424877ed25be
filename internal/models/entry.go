package models

// Entry представляет одну запись учётной таблицы: клиент и характеристики
// изделия. Динамически добавленные колонки в структуру не входят — они
// присутствуют только в RowSet, который строится по живой схеме таблицы.
type Entry struct {
	CustomerName string  `json:"customerName" validate:"required"` // Имя клиента
	Address      string  `json:"address"`                          // Адрес
	City         string  `json:"city"`                             // Город
	ProductName  string  `json:"productName"`                      // Название изделия
	ModelNo      string  `json:"modelNo"`                          // Номер модели
	KW           float64 `json:"kw"`                               // Мощность, кВт
	TankVolume   float64 `json:"tankVolume"`                       // Объём бака
	Qty          int     `json:"qty" validate:"gte=0"`             // Количество
}

// RowSet — результат выборки из таблицы entries с учётом динамических
// колонок: упорядоченный список имён колонок и строки в виде
// отображений имя колонки -> значение.
type RowSet struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// CityStat — агрегат по городу: суммарное количество по всем записям города.
type CityStat struct {
	City     string `json:"city"`
	TotalQty int64  `json:"totalqty"`
}

// ImportResult — итог пакетной загрузки: сколько строк вставлено,
// сколько отброшено. Загрузка не атомарна, каждая строка — отдельная
// единица работы.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Failed   int `json:"failed"`
}
