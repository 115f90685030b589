package sinks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/daniacca/ecosim/internal/eco"
	"github.com/gorilla/websocket"
)

// WebSocketSink broadcasts snapshots to every connected WebSocket client.
// A single hub goroutine owns the client set; registration and broadcasts
// arrive over channels.
type WebSocketSink struct {
	id         string
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan eco.Snapshot
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewWebSocketSink creates a websocket sink and starts its hub goroutine.
func NewWebSocketSink(id string) *WebSocketSink {
	sink := &WebSocketSink{
		id:         id,
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan eco.Snapshot, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	sink.wg.Add(1)
	go sink.run()

	return sink
}

// ID returns the sink ID.
func (ws *WebSocketSink) ID() string {
	return ws.id
}

// Type returns the sink type.
func (ws *WebSocketSink) Type() string {
	return "websocket"
}

// RegisterClient adds an upgraded connection to the broadcast set.
func (ws *WebSocketSink) RegisterClient(conn *websocket.Conn) {
	select {
	case ws.register <- conn:
	case <-ws.done:
	}
}

// UnregisterClient removes and closes a connection.
func (ws *WebSocketSink) UnregisterClient(conn *websocket.Conn) {
	select {
	case ws.unregister <- conn:
	case <-ws.done:
	}
}

// ClientCount returns the number of connected clients.
func (ws *WebSocketSink) ClientCount() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.clients)
}

// Publish queues a snapshot for broadcast to all connected clients.
func (ws *WebSocketSink) Publish(ctx context.Context, snapshot eco.Snapshot) error {
	select {
	case ws.broadcast <- snapshot:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(1 * time.Second):
		return fmt.Errorf("broadcast queue full")
	}
}

func (ws *WebSocketSink) run() {
	defer ws.wg.Done()
	for {
		select {
		case <-ws.done:
			return

		case conn := <-ws.register:
			if conn == nil {
				continue
			}
			ws.mu.Lock()
			ws.clients[conn] = true
			ws.mu.Unlock()

		case conn := <-ws.unregister:
			if conn == nil {
				continue
			}
			ws.mu.Lock()
			if _, ok := ws.clients[conn]; ok {
				delete(ws.clients, conn)
				conn.Close()
			}
			ws.mu.Unlock()

		case snapshot := <-ws.broadcast:
			data, err := eco.EncodeSnapshotJSON(snapshot)
			if err != nil {
				continue
			}

			ws.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(ws.clients))
			for conn := range ws.clients {
				conns = append(conns, conn)
			}
			ws.mu.RUnlock()

			// Writes happen outside the lock; failed connections get
			// dropped from the set afterwards.
			var toRemove []*websocket.Conn
			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					toRemove = append(toRemove, conn)
					conn.Close()
				}
			}

			if len(toRemove) > 0 {
				ws.mu.Lock()
				for _, conn := range toRemove {
					delete(ws.clients, conn)
				}
				ws.mu.Unlock()
			}
		}
	}
}

// Close disconnects every client and stops the hub goroutine.
func (ws *WebSocketSink) Close() error {
	close(ws.done)

	ws.mu.Lock()
	for conn := range ws.clients {
		conn.Close()
		delete(ws.clients, conn)
	}
	ws.mu.Unlock()

	ws.wg.Wait()
	return nil
}

// GetUpgrader returns the WebSocket upgrader for HTTP handlers.
func (ws *WebSocketSink) GetUpgrader() websocket.Upgrader {
	return ws.upgrader
}
