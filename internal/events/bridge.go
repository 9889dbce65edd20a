package events

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketSink implements Callback by fanning every Event out as JSON
// to connected WebSocket clients, letting a host watch a VM's
// OpcodeExecuted/TierChanged traffic live. Grounded on the teacher's
// internal/network/websocket_server.go WebSocketServer broadcast
// pattern, narrowed from a general-purpose socket server down to a
// single-purpose event fan-out.
type WebSocketSink struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
}

// NewWebSocketSink builds an empty sink. Call ServeHTTP from an
// http.Server handler to accept client connections.
func NewWebSocketSink() *WebSocketSink {
	return &WebSocketSink{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and registers it as an event
// listener until it disconnects.
func (s *WebSocketSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer s.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *WebSocketSink) remove(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// OnEvent implements Callback by broadcasting e as JSON to every
// connected client. A write failure drops that client.
func (s *WebSocketSink) OnEvent(e Event) {
	payload, err := json.Marshal(wireEvent{
		Kind:       e.Kind.String(),
		IP:         e.IP,
		Opcode:     e.Opcode,
		TierAfter:  e.TierAfter,
		Entropy:    e.Entropy,
		TierFrom:   e.TierFrom,
		TierTo:     e.TierTo,
		Reason:     e.Reason,
		Depth:      e.Depth,
		StackSize:  e.StackSize,
		HaltReason: e.HaltReason,
		SessionID:  e.SessionID,
	})
	if err != nil {
		return
	}

	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.remove(c)
		}
	}
}

// wireEvent is the JSON-friendly projection of Event broadcast over
// the WebSocket bridge. The Err field is not sent; HaltReason only
// says whether a halt was caused by an error or by the HALT opcode.
type wireEvent struct {
	Kind       string  `json:"kind"`
	IP         int     `json:"ip,omitempty"`
	Opcode     byte    `json:"opcode,omitempty"`
	TierAfter  string  `json:"tier_after,omitempty"`
	Entropy    float64 `json:"entropy,omitempty"`
	TierFrom   string  `json:"tier_from,omitempty"`
	TierTo     string  `json:"tier_to,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Depth      int     `json:"depth,omitempty"`
	StackSize  int     `json:"stack_size,omitempty"`
	HaltReason string  `json:"halt_reason,omitempty"`
	SessionID  string  `json:"session_id,omitempty"`
}

var _ Callback = (*WebSocketSink)(nil)
