// Package sessioncookie инкапсулирует работу с сессионной кукой:
// подпись значения секретом через securecookie, установку атрибутов
// HttpOnly/SameSite/Secure и удаление куки при выходе.
package sessioncookie

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// Name — имя сессионной куки.
const Name = "session_id"

// Codec подписывает и проверяет значение сессионной куки.
type Codec struct {
	sc     *securecookie.SecureCookie
	secure bool
	ttl    time.Duration
}

// New создает Codec с указанным секретом подписи.
// secure включает атрибут Secure (используется в prod-окружении).
func New(secret []byte, secure bool, ttl time.Duration) *Codec {
	return &Codec{
		sc:     securecookie.New(secret, nil),
		secure: secure,
		ttl:    ttl,
	}
}

// Set подписывает идентификатор сессии и устанавливает куку в ответ.
func (c *Codec) Set(w http.ResponseWriter, sessionID string) error {
	const op = "sessioncookie.Set"
	encoded, err := c.sc.Encode(Name, sessionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read извлекает идентификатор сессии из куки запроса и проверяет подпись.
func (c *Codec) Read(r *http.Request) (string, error) {
	const op = "sessioncookie.Read"
	cookie, err := r.Cookie(Name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	var sessionID string
	if err := c.sc.Decode(Name, cookie.Value, &sessionID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return sessionID, nil
}

// Clear удаляет сессионную куку из браузера клиента.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
