package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to the peer with this period.
	pingPeriod = 30 * time.Second

	// Maximum message size allowed from the peer. Event messages are tiny;
	// anything near the limit is a misbehaving client.
	maxMessageSize = 64 * 1024

	// Outbound buffer per client. When it fills the client is too slow to
	// keep up and messages are dropped rather than stalling the room.
	sendBufferSize = 256
)

// Client is one WebSocket connection attached to a project room.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	send chan []byte

	ProjectID   string
	UserID      string
	DisplayName string

	// ClientID identifies the connection; SessionID identifies the editor
	// session shown in rosters. They differ so a reconnect can resume a
	// session later without colliding with the old connection.
	ClientID  string
	SessionID string
}

func NewClient(hub *Hub, conn *websocket.Conn, projectID, userID, displayName, clientID, sessionID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		ProjectID:   projectID,
		UserID:      userID,
		DisplayName: displayName,
		ClientID:    clientID,
		SessionID:   sessionID,
	}
}

// queue enqueues a marshaled message for delivery, dropping it when the
// client's buffer is full.
func (c *Client) queue(data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("dropping message to slow client",
			"clientId", c.ClientID,
			"projectId", c.ProjectID,
		)
	}
}

func (c *Client) queueMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal message", "type", msg.Type, "error", err)
		return
	}
	c.queue(data)
}

// ReadPump reads messages from the connection and hands them to the hub.
// It runs on the connection's goroutine and unregisters the client on exit.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == -1 && !errors.Is(err, context.Canceled) {
				slog.Debug("websocket read failed", "clientId", c.ClientID, "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("discarding malformed message", "clientId", c.ClientID, "error", err)
			continue
		}

		// Stamp the sender identity; clients cannot speak for each other.
		msg.ProjectID = c.ProjectID
		msg.ClientID = c.ClientID
		msg.UserID = c.UserID

		c.hub.handleMessage(c, msg)
	}
}

// WritePump drains the send buffer to the connection and keeps the
// connection alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.write(ctx, data); err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) write(ctx context.Context, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return c.conn.Write(writeCtx, websocket.MessageText, data)
}
