package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"workshop-golang/internal/service/tracker"
	"workshop-golang/internal/storage"
)

type OrderProvider interface {
	Orders() []*storage.ProductionOrder
}

// ExportTracker отдаёт текущий набор заказов как xlsx в формате трекера
func ExportTracker(log *slog.Logger, orders OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tracker.export.ExportTracker"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		excelBytes, err := tracker.WriteSheet(orders.Orders())
		if err != nil {
			log.Error("Не удалось собрать xlsx", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Don_hang_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
