package delete

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type OrderDeleter interface {
	Delete(id string) bool
}

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func DeleteOrder(log *slog.Logger, orders OrderDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.delete.DeleteOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if !orders.Delete(id) {
			log.Error("заказ не найден", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, Response{Error: "Заказ не найден"})
			return
		}

		log.Info("заказ удалён", slog.String("id", id))

		render.JSON(w, r, Response{
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
