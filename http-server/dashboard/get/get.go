package get

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	ordersget "workshop-golang/http-server/orders/get"
	"workshop-golang/internal/service/pipeline"
	"workshop-golang/internal/storage"
)

type ResponseDashboard struct {
	Orders []*storage.ProductionOrder `json:"orders"`
	Groups []*storage.GroupedOrder    `json:"groups"`
	Stats  storage.DashboardStats     `json:"stats"`
	Status string                     `json:"status"`
	Error  string                     `json:"error"`
}

type DashboardProvider interface {
	Dashboard(criteria pipeline.Criteria) ([]*storage.ProductionOrder, []*storage.GroupedOrder, storage.DashboardStats)
}

// GetDashboard — видимые заказы, группы по названию и счётчики одним ответом
func GetDashboard(log *slog.Logger, provider DashboardProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.get.GetDashboard"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		criteria := ordersget.CriteriaFromQuery(r)
		visible, groups, stats := provider.Dashboard(criteria)

		log.Debug("собрана сводка",
			slog.Int("orders", len(visible)),
			slog.Int("groups", len(groups)),
		)

		render.JSON(w, r, ResponseDashboard{
			Orders: visible,
			Groups: groups,
			Stats:  stats,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
