package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"workshop-golang/internal/storage"
)

type ProviderSaver interface {
	SaveProvider(ctx context.Context, p storage.MaterialProvider) error
}

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// UpdateProvider — правка срока поставки материала (админский контур, basic auth)
func UpdateProvider(log *slog.Logger, saver ProviderSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.providers.update.UpdateProvider"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req storage.MaterialProvider
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := saver.SaveProvider(ctx, req); err != nil {
			log.Error("Ошибка при сохранении поставщика", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "не удалось сохранить поставщика"})
			return
		}

		log.Info("обновлён поставщик",
			slog.String("name", req.Name),
			slog.Int("lead_days", req.LeadDays),
		)

		render.JSON(w, r, Response{
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
