package diagnostics

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Stream broadcasts Snapshot messages to every subscribed websocket client
// — the live-diagnostics counterpart to Sink's durable persistence. Client
// bookkeeping follows the teacher's WebSocketServer/broadcast pattern:
// a registry guarded by a mutex, writes best-effort with a disconnected
// client dropped rather than blocking the broadcaster.
type Stream struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*websocket.Conn
}

// NewStream builds a Stream ready to Handle connections and Broadcast to
// them. CheckOrigin is permissive since this is a local diagnostics
// endpoint, not a public API surface.
func NewStream() *Stream {
	return &Stream{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*websocket.Conn),
	}
}

// Handle upgrades one HTTP request to a websocket subscriber.
func (s *Stream) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("diagnostics: upgrade failed: %v", err)
		return
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.clients[id] = conn
	s.mu.Unlock()

	// Drain and discard inbound frames; this stream is publish-only. The
	// read loop exists purely to notice the client going away.
	go func() {
		defer s.drop(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Stream) drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conn, ok := s.clients[id]; ok {
		conn.Close()
		delete(s.clients, id)
	}
}

// Broadcast marshals snap and sends it to every connected subscriber,
// dropping any connection that errors on write.
func (s *Stream) Broadcast(snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.RLock()
	ids := make([]string, 0, len(s.clients))
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for id, c := range s.clients {
		ids = append(ids, id)
		conns = append(conns, c)
	}
	s.mu.RUnlock()

	for i, conn := range conns {
		if werr := conn.WriteMessage(websocket.TextMessage, payload); werr != nil {
			s.drop(ids[i])
		}
	}
	return nil
}

// ListenAndServe runs the stream's websocket endpoint at addr until err.
func (s *Stream) ListenAndServe(addr, path string) error {
	mux := http.NewServeMux()
	mux.HandleFunc(path, s.Handle)
	return http.ListenAndServe(addr, mux)
}
