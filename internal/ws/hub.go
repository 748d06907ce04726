package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"securechat/internal/models"
	"securechat/internal/observability"
)

// Hub fans engine events out to subscribed presentation clients. A client
// subscribes either to one conversation key or, with an empty key, to the
// process-wide feed (presence changes, sweeps, room creation).
type Hub struct {
	conversations map[string]map[*websocket.Conn]ConnInfo
	global        map[*websocket.Conn]ConnInfo
	mu            sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		conversations: make(map[string]map[*websocket.Conn]ConnInfo),
		global:        make(map[*websocket.Conn]ConnInfo),
	}
}

// AddClient registers a websocket connection for a conversation key, or for
// the global feed when key is empty.
func (h *Hub) AddClient(key string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if key == "" {
		h.global[conn] = info
		return
	}
	if _, ok := h.conversations[key]; !ok {
		h.conversations[key] = make(map[*websocket.Conn]ConnInfo)
	}
	h.conversations[key][conn] = info
}

// RemoveClient drops a websocket connection.
func (h *Hub) RemoveClient(key string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if key == "" {
		delete(h.global, conn)
		return
	}
	if conns, ok := h.conversations[key]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.conversations, key)
		}
	}
}

// Publish delivers an engine event to every subscriber of its conversation
// and to all global subscribers. Safe to pass to Engine.Subscribe.
func (h *Hub) Publish(ev models.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws event marshal error: %v", err)
		return
	}

	h.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(h.global))
	keys := make([]string, 0, len(h.global))
	if ev.ConversationKey != "" {
		for conn := range h.conversations[ev.ConversationKey] {
			targets = append(targets, conn)
			keys = append(keys, ev.ConversationKey)
		}
	}
	for conn := range h.global {
		targets = append(targets, conn)
		keys = append(keys, "")
	}
	h.mu.RUnlock()

	for i, conn := range targets {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.RemoveClient(keys[i], conn)
			observability.IncWSEvent("ws_error")
		}
	}
}

// SubscriberCount reports how many connections follow the given key.
func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if key == "" {
		return len(h.global)
	}
	return len(h.conversations[key])
}
