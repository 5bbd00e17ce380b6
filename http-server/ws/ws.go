package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"workshop-golang/internal/storage"
)

type Hub interface {
	AddClient(conn *websocket.Conn)
	RemoveClient(conn *websocket.Conn)
	PublishSnapshot(version int64, orders []*storage.ProductionOrder)
}

type CollectionSnapshot interface {
	Orders() []*storage.ProductionOrder
	Version() int64
}

// originAllowed — проверка Origin апгрейда. CORS вебсокеты не закрывает
// (preflight до апгрейда не доходит), поэтому браузерный Origin режем
// сами. Пустой Origin — не браузер, пропускаем.
func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(origin, a) {
			return true
		}
	}
	return false
}

// Subscribe апгрейдит соединение и ставит клиента на рассылку.
// Сразу после подключения клиенту уходит актуальный снимок.
func Subscribe(log *slog.Logger, hub Hub, coll CollectionSnapshot, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r.Header.Get("Origin"), allowedOrigins)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ws.Subscribe"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("не удалось апгрейдить соединение", slog.String("error", err.Error()))
			return
		}

		hub.AddClient(conn)
		log.Info("подключён подписчик", slog.String("remote", conn.RemoteAddr().String()))

		hub.PublishSnapshot(coll.Version(), coll.Orders())

		// Читаем только ради контроля закрытия, входящих сообщений нет
		go func() {
			defer hub.RemoveClient(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
