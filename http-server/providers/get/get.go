package get

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"workshop-golang/internal/constants"
	"workshop-golang/internal/storage"
)

// ResponseProviders — справочник поставщиков плюс остальные каталоги
// для выпадающих списков интерфейса
type ResponseProviders struct {
	Providers    []storage.MaterialProvider `json:"providers"`
	Techs        []string                   `json:"techs"`
	Workers      []string                   `json:"workers"`
	ProductTypes []string                   `json:"product_types"`
	Supplies     []string                   `json:"supplies"`
	Status       string                     `json:"status"`
	Error        string                     `json:"error"`
}

type ProviderCatalogue interface {
	Providers() []storage.MaterialProvider
}

func GetProviders(log *slog.Logger, catalogue ProviderCatalogue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.providers.get.GetProviders"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		providers := catalogue.Providers()

		log.Debug("отдаём справочники", slog.Int("providers", len(providers)))

		render.JSON(w, r, ResponseProviders{
			Providers:    providers,
			Techs:        constants.TechList,
			Workers:      constants.WorkerList,
			ProductTypes: constants.ProductTypes,
			Supplies:     constants.OtherSupplies,
			Status:       strconv.Itoa(http.StatusOK),
		})
	}
}
