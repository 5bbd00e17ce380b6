package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	getdashboard "workshop-golang/http-server/dashboard/get"
	deleteorder "workshop-golang/http-server/orders/delete"
	getorders "workshop-golang/http-server/orders/get"
	saveorder "workshop-golang/http-server/orders/save"
	updateorder "workshop-golang/http-server/orders/update"
	getproviders "workshop-golang/http-server/providers/get"
	upproviders "workshop-golang/http-server/providers/update"
	trackerexport "workshop-golang/http-server/tracker/export"
	trackerupload "workshop-golang/http-server/tracker/upload"
	wshandler "workshop-golang/http-server/ws"
	"workshop-golang/internal/config"
	"workshop-golang/internal/middleware/auth"
	"workshop-golang/internal/service/collection"
	"workshop-golang/internal/ws"
)

func routes(cfg config.Config, log *slog.Logger, coll *collection.Collection, hub *ws.Hub) *chi.Mux {
	router := chi.NewRouter()

	// Разрешаем запросы с фронтенда; тот же список закрывает и апгрейд /ws
	allowedOrigins := []string{"http://localhost:8081", "http://localhost:5173"}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	//ip пользователя
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Заказы
	router.Get("/api/orders", getorders.GetOrders(log, coll))
	router.Post("/api/orders", saveorder.CreateOrder(log, coll))
	router.Put("/api/orders/{id}", updateorder.UpdateOrder(log, coll))
	router.Post("/api/orders/{id}/advance", updateorder.AdvanceOrder(log, coll))
	router.Post("/api/orders/{id}/urgent", updateorder.ToggleUrgent(log, coll))
	router.Put("/api/orders/{id}/note", updateorder.SaveNote(log, coll))
	router.Delete("/api/orders/{id}", deleteorder.DeleteOrder(log, coll))

	// Сводка и справочники
	router.Get("/api/dashboard", getdashboard.GetDashboard(log, coll))
	router.Get("/api/providers", getproviders.GetProviders(log, coll))

	// Обмен с трекером
	router.Post("/api/tracker/import", trackerupload.ImportTracker(log, coll))
	router.Get("/api/tracker/export", trackerexport.ExportTracker(log, coll))

	// Подписка на снимки коллекции и тосты
	router.Get("/ws", wshandler.Subscribe(log, hub, coll, allowedOrigins))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Put("/providers", upproviders.UpdateProvider(log, coll))

	router.Mount("/api/admin", adminRouter)

	// Статика интерфейса цеха
	frontendDir := "./frontend-dist"
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		// API работает и без собранного фронтенда
		log.Warn("Папка фронтенда не найдена", "path", frontendDir)
		return router
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	//SPA fallback: любой другой путь → index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
