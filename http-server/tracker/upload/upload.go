package upload

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"workshop-golang/internal/service/tracker"
	"workshop-golang/internal/storage"
)

// до 10 МБ на файл трекера
const maxUploadBytes = 10 << 20

type OrderImporter interface {
	ImportReplace(ctx context.Context, imported []*storage.ProductionOrder) error
}

type Response struct {
	Imported int    `json:"imported"`
	Rejected int    `json:"rejected"`
	Status   string `json:"status"`
	Error    string `json:"error"`
}

// ImportTracker принимает xlsx трекера (multipart, поле file) и замещает
// рабочий набор его строками. Строки без кода заказа отбрасываются и
// считаются отдельно.
func ImportTracker(log *slog.Logger, importer OrderImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tracker.upload.ImportTracker"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			log.Error("Неверная multipart-форма", slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			log.Error("Нет файла в запросе", slog.String("error", err.Error()))
			http.Error(w, "Не передан файл", http.StatusBadRequest)
			return
		}
		defer file.Close()

		orders, rejected, err := tracker.Import(file)
		if err != nil {
			log.Error("Не удалось разобрать файл трекера", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, Response{Error: "не удалось разобрать файл"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := importer.ImportReplace(ctx, orders); err != nil {
			log.Error("Ошибка при импорте заказов", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "не удалось сохранить импорт"})
			return
		}

		log.Info("импорт трекера завершён",
			slog.Int("imported", len(orders)),
			slog.Int("rejected", rejected),
		)

		render.JSON(w, r, Response{
			Imported: len(orders),
			Rejected: rejected,
			Status:   strconv.Itoa(http.StatusOK),
		})
	}
}
