// Package pages отдаёт встроенные HTML-страницы приложения.
// Страницы статичны, данные подгружаются из API на стороне браузера.
package pages

import (
	"embed"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
)

//go:embed web/*.html
var content embed.FS

// Handler отдаёт одну встроенную HTML-страницу.
type Handler struct {
	log  *slog.Logger
	page []byte
}

// New создает Handler для страницы с именем name (без расширения).
// Паникует, если страница не встроена — это ошибка сборки, не рантайма.
func New(log *slog.Logger, name string) *Handler {
	page, err := content.ReadFile("web/" + name + ".html")
	if err != nil {
		panic("pages: missing embedded page " + name + ": " + err.Error())
	}
	return &Handler{
		log:  log,
		page: page,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pages"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(h.page); err != nil {
		log.Error("failed to write page", sl.Err(err))
	}
}
