package models

import "time"

// Session представляет серверную сессию пользователя. Идентификатор
// непрозрачный, генерируется сервером; запись хранится в базе данных,
// поэтому сессия переживает перезапуск процесса.
type Session struct {
	ID        string    `json:"-"`        // Непрозрачный идентификатор сессии
	UserUID   string    `json:"user_uid"` // Идентификатор пользователя
	Username  string    `json:"username"` // Имя пользователя на момент входа
	Role      string    `json:"role"`     // Роль пользователя на момент входа
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
