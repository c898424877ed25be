// Package models содержит доменные структуры приложения: пользователей,
// сессии и записи учётной таблицы. Структуры используются в бизнес-логике
// и при работе с хранилищем.
package models

import "time"

// Роли пользователей системы. Admin может существовать только в одном экземпляре.
const (
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
	RoleViewer = "Viewer"
)

// User представляет учётную запись пользователя системы.
type User struct {
	UID          string    `json:"uid"`      // Уникальный идентификатор пользователя
	Username     string    `json:"username"` // Имя пользователя (уникальное)
	PasswordHash string    `json:"-"`        // Bcrypt-хэш пароля
	Role         string    `json:"role"`     // Роль: Admin, Editor или Viewer
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole сообщает, входит ли role в множество известных ролей.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}
