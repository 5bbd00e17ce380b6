package save

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"workshop-golang/internal/service/collection"
	"workshop-golang/internal/storage"
)

type OrderSaver interface {
	Save(o *storage.ProductionOrder) *storage.ProductionOrder
}

type Response struct {
	Order  *storage.ProductionOrder `json:"order"`
	Status string                   `json:"status"`
	Error  string                   `json:"error"`
}

// CreateOrder — новый заказ. Тело запроса — частичный заказ, пустые поля
// добиваются дефолтами конструктора.
func CreateOrder(log *slog.Logger, saver OrderSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.save.CreateOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req storage.ProductionOrder
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		o := collection.NewOrder()
		applyRequest(o, &req)

		saved := saver.Save(o)

		log.Info("создан заказ", slog.String("id", saved.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Order:  saved,
			Status: strconv.Itoa(http.StatusCreated),
		})
	}
}

// applyRequest переносит заполненные поля запроса поверх дефолтов
func applyRequest(dst, src *storage.ProductionOrder) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Client != "" {
		dst.Client = src.Client
	}
	if src.Value != 0 {
		dst.Value = src.Value
	}
	if src.ProductType != "" {
		dst.ProductType = src.ProductType
	}
	if src.StepLabel != "" {
		dst.StepLabel = src.StepLabel
	}
	if src.FileReceivedDate != "" {
		dst.FileReceivedDate = src.FileReceivedDate
	}
	if src.MaterialOrderDate != "" {
		dst.MaterialOrderDate = src.MaterialOrderDate
	}
	if src.DeliveryDate != "" {
		dst.DeliveryDate = src.DeliveryDate
	}
	if src.DurationDays != 0 {
		dst.DurationDays = src.DurationDays
	}
	if len(src.BoardProviders) > 0 {
		dst.BoardProviders = src.BoardProviders
	}
	if src.AssignedTech != "" {
		dst.AssignedTech = src.AssignedTech
	}
	if src.AssignedWorker != "" {
		dst.AssignedWorker = src.AssignedWorker
	}
	if src.DeliveryRoute != "" {
		dst.DeliveryRoute = src.DeliveryRoute
	}
	if src.OtherSupplies != "" {
		dst.OtherSupplies = src.OtherSupplies
	}
	if src.Note != "" {
		dst.Note = src.Note
	}
	if src.ClientPhone != "" {
		dst.ClientPhone = src.ClientPhone
	}
	if len(src.Tags) > 0 {
		dst.Tags = src.Tags
	}
	dst.IsUrgent = src.IsUrgent
	dst.Skipped = src.Skipped
}
