package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	applogger "DivScope/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WSHub fans classified-update notifications out to websocket clients. A
// client that cannot keep up is dropped rather than allowed to block the
// broadcast path.
type WSHub struct {
	l        *applogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewWSHub(l *applogger.Logger) *WSHub {
	return &WSHub{
		l: l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
}

func (h *WSHub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the connection and pumps broadcasts until the client goes
// away.
func (h *WSHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.l.Warn("ws upgrade error", applogger.Error(err))
		return err
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.l.Info("ws client connected", applogger.Int("clients", n))

	go h.writeLoop(client)
	h.readLoop(client)
	return nil
}

// Broadcast sends an event to every connected client.
func (h *WSHub) Broadcast(event string, payload interface{}) {
	b, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  payload,
		"ts":    time.Now().UTC(),
	})
	if err != nil {
		h.l.Warn("ws marshal error", applogger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- b:
		default:
			// slow client; disconnect it
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *WSHub) writeLoop(client *wsClient) {
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()
	defer client.conn.Close()

	for {
		select {
		case b, ok := <-client.send:
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ping.C:
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so pings/pongs and close handshakes work;
// inbound payloads are ignored.
func (h *WSHub) readLoop(client *wsClient) {
	defer h.drop(client)
	client.conn.SetReadLimit(512)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WSHub) drop(client *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	_ = client.conn.Close()
	h.l.Info("ws client disconnected", applogger.Int("clients", n))
}
