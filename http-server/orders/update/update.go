package update

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"workshop-golang/internal/storage"
)

type OrderUpdater interface {
	Get(id string) (*storage.ProductionOrder, bool)
	Save(o *storage.ProductionOrder) *storage.ProductionOrder
	AdvanceStep(id string) (*storage.ProductionOrder, bool)
	ToggleUrgent(id string) (*storage.ProductionOrder, bool)
	SaveNote(id, note string) bool
}

type Response struct {
	Order  *storage.ProductionOrder `json:"order,omitempty"`
	Status string                   `json:"status"`
	Error  string                   `json:"error"`
}

// UpdateOrder — полная правка заказа. Производные поля (этап, прогресс,
// дата сборки, срок) пересчитываются внутри коллекции.
func UpdateOrder(log *slog.Logger, orders OrderUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.update.UpdateOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Не указан id заказа", http.StatusBadRequest)
			return
		}

		// Правка накладывается на клон живого заказа: непереданные поля
		// (created_at, tags, skipped) остаются как были
		req, ok := orders.Get(id)
		if !ok {
			log.Error("заказ не найден", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, Response{Error: "Заказ не найден"})
			return
		}

		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			log.Error("Неверный JSON", slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}
		req.ID = id

		saved := orders.Save(req)

		render.JSON(w, r, Response{
			Order:  saved,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

// AdvanceOrder переводит заказ на следующий шаг и толкает статус в трекер
func AdvanceOrder(log *slog.Logger, orders OrderUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.update.AdvanceOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		o, ok := orders.AdvanceStep(id)
		if !ok {
			log.Error("заказ не найден", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, Response{Error: "Заказ не найден"})
			return
		}

		render.JSON(w, r, Response{
			Order:  o,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

func ToggleUrgent(log *slog.Logger, orders OrderUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.update.ToggleUrgent"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		o, ok := orders.ToggleUrgent(id)
		if !ok {
			log.Error("заказ не найден", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, Response{Error: "Заказ не найден"})
			return
		}

		render.JSON(w, r, Response{
			Order:  o,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

type noteRequest struct {
	Note string `json:"note"`
}

func SaveNote(log *slog.Logger, orders OrderUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.update.SaveNote"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		var req noteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		if !orders.SaveNote(id, req.Note) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, Response{Error: "Заказ не найден"})
			return
		}

		render.JSON(w, r, Response{
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
