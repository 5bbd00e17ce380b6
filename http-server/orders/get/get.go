package get

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"workshop-golang/internal/service/pipeline"
	"workshop-golang/internal/storage"
)

type ResponseOrders struct {
	Orders  []*storage.ProductionOrder `json:"orders"`
	Version int64                      `json:"version"`
	Status  string                     `json:"status"`
	Error   string                     `json:"error"`
}

type OrderProvider interface {
	Visible(criteria pipeline.Criteria) []*storage.ProductionOrder
	Version() int64
}

// CriteriaFromQuery собирает критерии видимости из query-параметров.
// Неизвестный date_filter трактуем как all, флаги — как ложь.
func CriteriaFromQuery(r *http.Request) pipeline.Criteria {
	q := r.URL.Query()

	filter := pipeline.DateFilter(q.Get("date_filter"))
	switch filter {
	case pipeline.DateToday, pipeline.DateTomorrow, pipeline.DateThisWeek:
	default:
		filter = pipeline.DateAll
	}

	return pipeline.Criteria{
		Search:        q.Get("search"),
		DateFilter:    filter,
		CompletedOnly: q.Get("completed") == "true",
		UrgentOnly:    q.Get("urgent") == "true",
		OverdueOnly:   q.Get("overdue") == "true",
		SortKey:       q.Get("sort"),
		SortDesc:      q.Get("desc") == "true",
	}
}

func GetOrders(log *slog.Logger, orders OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.get.GetOrders"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		criteria := CriteriaFromQuery(r)
		visible := orders.Visible(criteria)

		log.Debug("отдаём видимые заказы", slog.Int("count", len(visible)))

		render.JSON(w, r, ResponseOrders{
			Orders:  visible,
			Version: orders.Version(),
			Status:  strconv.Itoa(http.StatusOK),
		})
	}
}
