package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Экраны и админка живут на других origin-ах
	},
}

// GlobalHub - единственный экземпляр хаба для всего приложения
var GlobalHub = NewHub()

// --- Структуры ---

// ChangeEvent - уведомление об изменении таблицы, рассылаемое всем
// подписчикам после каждой записи (из обработчиков или из движка).
// Клиент в ответ перечитывает данные; сами дельты не передаются.
type ChangeEvent struct {
	Table   string      `json:"table"`
	Kind    string      `json:"kind"` // INSERT, UPDATE, DELETE
	Payload interface{} `json:"payload"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

// --- Методы Хаба ---

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Подписчик подключён", "total", len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			slog.Info("Подписчик отключён", "total", len(h.clients))

		case messageData := <-h.broadcast:
			h.fanOut(messageData)
		}
	}
}

// NotifyChange сериализует уведомление и отправляет его всем подписчикам.
// Вызывается после успешной записи; ошибок не возвращает - доставка
// уведомлений негарантированная, клиенты дополнительно опрашивают API.
func (h *Hub) NotifyChange(table, kind string, payload interface{}) {
	data, err := json.Marshal(ChangeEvent{Table: table, Kind: kind, Payload: payload})
	if err != nil {
		slog.Error("Не удалось сериализовать уведомление", "table", table, "error", err)
		return
	}
	h.broadcast <- data
}

func (h *Hub) fanOut(messageData []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- messageData:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// --- Методы Клиента и WebSocket Endpoint ---

// readPump только следит за закрытием соединения: входящие сообщения
// от подписчиков не обрабатываются.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("Неожиданное закрытие websocket", "error", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Error("Не удалось отправить сообщение в websocket", "error", err)
			return
		}
	}
}

// ChangesWSEndpoint подключает клиента к ленте изменений.
func ChangesWSEndpoint(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Не удалось открыть WebSocket-соединение", "error", err)
		return
	}

	client := &Client{
		hub:  GlobalHub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
