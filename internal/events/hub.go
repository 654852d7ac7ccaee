// Package events fans change notifications out to TCP and websocket
// listeners.
package events

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pokedex/pkg/utils"
)

const writeTimeout = 2 * time.Second

type Hub struct {
	mu        sync.Mutex
	clients   map[net.Conn]struct{}
	wsClients map[*websocket.Conn]struct{}
	logger    *zap.Logger
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:   make(map[net.Conn]struct{}),
		wsClients: make(map[*websocket.Conn]struct{}),
		logger:    utils.OrNop(logger),
	}
}

func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Join registers conn and sends it the welcome line. Both happen under the
// hub lock so no broadcast can reach the listener ahead of the welcome.
func (h *Hub) Join(conn net.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[conn] = struct{}{}
	msg := fmt.Sprintf("{\"type\":\"welcome\",\"transport\":\"tcp\",\"clients\":%d}\n", len(h.clients))
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, _ = conn.Write([]byte(msg))
}

// JoinWS is Join for websocket listeners. A websocket connection allows one
// writer at a time, and every hub write happens under mu.
func (h *Hub) JoinWS(ws *websocket.Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"welcome","transport":"websocket"}`+"\n")); err != nil {
		return err
	}
	h.wsClients[ws] = struct{}{}
	return nil
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Publish broadcasts an event.
func (h *Hub) Publish(e Event) {
	h.BroadcastJSON(e)
}

// BroadcastJSON writes v as one JSON line to every listener. Listeners that
// fail the write are dropped.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("broadcast: marshal", zap.Error(err))
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := c.Write(b); err != nil {
			h.logger.Debug("dropping tcp listener", zap.String("remote", c.RemoteAddr().String()), zap.Error(err))
			_ = c.Close()
			delete(h.clients, c)
		}
	}

	for ws := range h.wsClients {
		_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			h.logger.Debug("dropping ws listener", zap.Error(err))
			_ = ws.Close()
			delete(h.wsClients, ws)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
	}
}

// CloseAll disconnects every listener.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.Close()
		delete(h.clients, c)
	}
	for ws := range h.wsClients {
		_ = ws.Close()
		delete(h.wsClients, ws)
	}
}
