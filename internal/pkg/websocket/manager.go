package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/riopardo/rides/internal/pkg/logger"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
)

// Message is the envelope written for every pushed event
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewMessage encodes data into a message for event
func NewMessage(event string, data interface{}) (Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, fmt.Errorf("error marshaling message data: %w", err)
	}
	return Message{Event: event, Data: raw}, nil
}

// Manager upgrades HTTP requests and pushes messages to the client
type Manager struct {
	upgrader websocket.Upgrader
}

// NewManager creates a new WebSocket manager
func NewManager() *Manager {
	return &Manager{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream upgrades the connection and writes every message from messages
// until ctx is done, messages is closed or the client goes away. Client
// frames other than pongs and close are ignored.
func (m *Manager) Stream(ctx context.Context, c echo.Context, messages <-chan Message) error {
	conn, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	gone := make(chan struct{})
	go readUntilClosed(conn, gone)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return nil
		case <-gone:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case msg, ok := <-messages:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				logger.WarnCtx(ctx, "Error sending websocket message",
					logger.String("event", msg.Event),
					logger.Err(err))
				return nil
			}
		}
	}
}

func readUntilClosed(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
