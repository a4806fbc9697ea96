package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub держит подключённых клиентов и рассылает им сообщения.
type Hub struct {
	clients     map[*Client]bool
	userClients map[uint64][]*Client
	broadcast   chan []byte
	Register    chan *Client
	unregister  chan *Client
	mu          sync.RWMutex
	logger      *zap.Logger
	now         func() time.Time
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[uint64][]*Client),
		broadcast:   make(chan []byte, 64),
		Register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
		now:         time.Now,
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Debug("WebSocket: клиент зарегистрирован", zap.Uint64("userID", client.UserID))
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Медленный клиент: отключаем, чтобы не тормозить остальных.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove вызывается под h.mu.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	clients := h.userClients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.userClients[client.UserID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.logger.Debug("WebSocket: клиент отсоединён", zap.Uint64("userID", client.UserID))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.remove(client)
	}
}

func (h *Hub) encode(messageType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Envelope{Type: messageType, Payload: payload, Timestamp: h.now().UTC()})
}

// Broadcast отправляет сообщение всем подключённым клиентам.
func (h *Hub) Broadcast(messageType string, payload interface{}) error {
	message, err := h.encode(messageType, payload)
	if err != nil {
		h.logger.Error("Ошибка сериализации сообщения для WebSocket", zap.Error(err))
		return err
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("WebSocket: очередь рассылки переполнена, сообщение пропущено", zap.String("type", messageType))
	}
	return nil
}

// SendMessageToUser отправляет сообщение во все соединения пользователя.
func (h *Hub) SendMessageToUser(userID uint64, payload interface{}, messageType string) error {
	message, err := h.encode(messageType, payload)
	if err != nil {
		h.logger.Error("Ошибка сериализации сообщения для WebSocket", zap.Error(err))
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.userClients[userID] {
		select {
		case client.Send <- message:
		default:
		}
	}
	return nil
}

// ClientCount: число активных соединений.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
