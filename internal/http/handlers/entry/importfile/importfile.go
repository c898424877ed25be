// Package importfile реализует HTTP-обработчик пакетной загрузки записей
// из xlsx-файла. Загрузка не атомарна: пригодные строки вставляются,
// непригодные подсчитываются, ошибка возвращается только если не удалось
// вставить ни одной строки.
package importfile

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/entry-registry/internal/http/response"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sl"
	"github.com/magabrotheeeer/entry-registry/internal/models"
)

// maxUploadSize ограничивает размер загружаемого файла.
const maxUploadSize = 10 << 20 // 10 MiB

// Handler обрабатывает HTTP-запросы пакетной загрузки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики пакетной загрузки.
type Service interface {
	Import(ctx context.Context, fileBytes []byte) (*models.ImportResult, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Загрузить xlsx
// @Description Принимает xlsx-файл в поле формы "excel" и вставляет пригодные строки.
// @Tags Entries
// @Accept  multipart/form-data
// @Produce  json
// @Param excel formData file true "Файл xlsx"
// @Success 200 {object} map[string]any "Итог загрузки"
// @Failure 400 {object} response.ErrorResponse "Файл отсутствует или нечитаем"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /upload [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.importfile"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid upload"))
		return
	}

	file, _, err := r.FormFile("excel")
	if err != nil {
		log.Error("missing excel file in form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read uploaded file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("could not read file"))
		return
	}

	result, err := h.service.Import(r.Context(), data)
	if err != nil {
		log.Error("import failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("could not import file"))
		return
	}

	log.Info("imported entries",
		slog.Int("inserted", result.Inserted),
		slog.Int("failed", result.Failed))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"inserted": result.Inserted,
		"failed":   result.Failed,
	}))
}
