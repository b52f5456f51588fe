package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/BioTune/biotune/internal/emotion"
)

// Hub управляет WebSocket соединениями
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Канал для регистрации клиентов
	register chan *Client

	// Канал для отмены регистрации клиентов
	unregister chan *Client

	// Канал для исходящих сообщений
	broadcast chan []byte

	// Мютекс для безопасной работы с картой клиентов
	mu sync.RWMutex

	// Последние вердикты для каждой сессии (session_id -> verdict)
	lastVerdicts map[string]emotion.Verdict
	verdictMu    sync.RWMutex
}

// Client представляет WebSocket клиента
type Client struct {
	hub *Hub

	// WebSocket соединение
	conn *websocket.Conn

	// Буферизованный канал исходящих сообщений
	send chan []byte

	// ID сессии для фильтрации данных
	sessionID string
}

// LiveUpdate представляет сообщение живой шкалы для фронтенда.
// Отправляется на каждый отсчет пульса; вердикт присутствует только
// когда выборка привела к классификации.
type LiveUpdate struct {
	SessionID         string           `json:"session_id"`
	BPM               int              `json:"bpm"`
	CapturedAtMillis  int64            `json:"captured_at_millis"`
	VideoTimestampSec float64          `json:"video_timestamp_sec"`
	Verdict           *emotion.Verdict `json:"verdict,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене следует проверять домен
		return true
	},
}

// NewHub создает новый Hub
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		broadcast:    make(chan []byte, 64),
		lastVerdicts: make(map[string]emotion.Verdict),
	}
}

// Run запускает Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("[WEBSOCKET] Client registered: %p, session: %s", client, client.sessionID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[WEBSOCKET] Client unregistered: %p", client)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastUpdate отправляет обновление живой шкалы всем клиентам
func (h *Hub) BroadcastUpdate(update LiveUpdate) {
	if update.Verdict != nil {
		h.setLastVerdict(update.SessionID, *update.Verdict)
	}

	message, err := json.Marshal(update)
	if err != nil {
		log.Printf("[ERROR] Failed to marshal live update: %v", err)
		return
	}

	select {
	case h.broadcast <- message:
	default:
		log.Printf("[WARN] Broadcast channel full, dropping message")
	}
}

// LastVerdict возвращает последний вердикт для сессии
func (h *Hub) LastVerdict(sessionID string) (emotion.Verdict, bool) {
	h.verdictMu.RLock()
	defer h.verdictMu.RUnlock()
	v, ok := h.lastVerdicts[sessionID]
	return v, ok
}

func (h *Hub) setLastVerdict(sessionID string, v emotion.Verdict) {
	h.verdictMu.Lock()
	defer h.verdictMu.Unlock()
	h.lastVerdicts[sessionID] = v
}

// ForgetSession удаляет состояние завершенной сессии
func (h *Hub) ForgetSession(sessionID string) {
	h.verdictMu.Lock()
	defer h.verdictMu.Unlock()
	delete(h.lastVerdicts, sessionID)
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ERROR] Failed to upgrade connection: %v", err)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = "default"
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	client.hub.register <- client

	// Запускаем горутины для клиента
	go client.writePump()
	go client.readPump()
}

// readPump обрабатывает входящие сообщения от клиента
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ERROR] WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump отправляет сообщения клиенту
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("[ERROR] Failed to write message: %v", err)
			return
		}
	}

	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
