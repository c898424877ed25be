package models

import "errors"

// Сентинельные ошибки доменного уровня. Обработчики переводят их
// в HTTP-статусы, слой хранения возвращает их через errors.Is-совместимые цепочки.
var (
	// ErrInvalidCredentials возвращается при неверном имени пользователя или пароле.
	// Текст одинаков для обоих случаев.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound возвращается, если сессия отсутствует или истекла.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotFound возвращается, если запись с указанным идентификатором не существует.
	ErrNotFound = errors.New("not found")
	// ErrConflict возвращается при нарушении уникальности имени пользователя,
	// попытке завести второго администратора или удалить собственную учётную запись.
	ErrConflict = errors.New("conflict")
	// ErrUnknownColumn возвращается, если имя колонки не входит в список колонок таблицы.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrBadColumnName возвращается, если имя новой колонки не является безопасным идентификатором.
	ErrBadColumnName = errors.New("invalid column name")
)
