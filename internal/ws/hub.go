package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"workshop-golang/internal/notify"
	"workshop-golang/internal/storage"
)

// Hub управляет WebSocket-соединениями интерфейса цеха. Подписчики
// получают полный снимок коллекции заказов на каждое изменение плюс
// тосты уведомлений.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 256), // буфер, чтобы не блокировать мутации
	}
}

// Run обрабатывает очередь рассылки, запускается в отдельной горутине
func (h *Hub) Run() {
	for {
		msg := <-h.broadcast
		h.mutex.RLock()
		for client := range h.clients {
			err := client.WriteMessage(websocket.TextMessage, msg)
			if err != nil {
				// Удаляем клиента при ошибке записи
				h.mutex.RUnlock()
				h.RemoveClient(client)
				h.mutex.RLock()
			}
		}
		h.mutex.RUnlock()
	}
}

func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()
}

func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mutex.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mutex.Unlock()
}

// BroadcastMessage кладёт сообщение в очередь без блокировки:
// переполненный канал — сообщение пропускается
func (h *Hub) BroadcastMessage(message []byte) {
	select {
	case h.broadcast <- message:
	default:
	}
}

func (h *Hub) ClientsCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

type snapshotMessage struct {
	Type    string                     `json:"type"`
	Version int64                      `json:"version"`
	Orders  []*storage.ProductionOrder `json:"orders"`
}

type toastMessage struct {
	Type  string       `json:"type"`
	Toast notify.Event `json:"toast"`
}

// PublishSnapshot рассылает полный снимок коллекции заказов
func (h *Hub) PublishSnapshot(version int64, orders []*storage.ProductionOrder) {
	msg, err := json.Marshal(snapshotMessage{Type: "snapshot", Version: version, Orders: orders})
	if err != nil {
		return
	}
	h.BroadcastMessage(msg)
}

// Notify реализует notify.Sink: тосты уходят тем же каналом
func (h *Hub) Notify(message string, severity notify.Severity) {
	msg, err := json.Marshal(toastMessage{Type: "toast", Toast: notify.Event{Message: message, Severity: severity}})
	if err != nil {
		return
	}
	h.BroadcastMessage(msg)
}
