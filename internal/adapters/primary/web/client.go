package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/gorilla/websocket"
)

const (
	writeWait             = 10 * time.Second
	pongWait              = 60 * time.Second
	pingPeriod            = (pongWait * 9) / 10
	defaultMaxMessageSize = 4096
)

// client pumps one websocket connection. The write pump is the only writer
// on the connection.
type client struct {
	conn           *websocket.Conn
	sub            *domain.Subscription
	relayService   RelayService
	maxMessageSize int64

	replies chan errorResponse
}

func newClient(conn *websocket.Conn, sub *domain.Subscription, relayService RelayService, maxMessageSize int64) *client {
	return &client{
		conn:           conn,
		sub:            sub,
		relayService:   relayService,
		maxMessageSize: maxMessageSize,
		replies:        make(chan errorResponse, 16),
	}
}

func (c *client) run(ctx context.Context) {
	defer func() {
		if err := c.relayService.Unsubscribe(c.sub.ID()); err != nil && !errors.Is(err, domain.ErrSubscriptionNotFound) {
			slog.ErrorContext(ctx, "error unsubscribing websocket client", "subscription", c.sub.ID(), "error", err)
		}
	}()

	slog.DebugContext(ctx, "websocket client connected", "subscription", c.sub.ID(), "remote_addr", c.conn.RemoteAddr().String())

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		c.readPump(ctx)
	}()

	c.writePump(ctx, readerDone)
	_ = c.conn.Close()
	<-readerDone

	slog.DebugContext(ctx, "websocket client disconnected", "subscription", c.sub.ID())
}

func (c *client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(c.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "websocket read error", "subscription", c.sub.ID(), "error", err)
			}
			return
		}

		var req publishRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			c.reply(errorResponse{Error: "invalid message format"})
			continue
		}

		if _, err := c.relayService.Publish(ctx, req.Text, req.User); err != nil {
			c.reply(errorResponse{Error: err.Error()})
		}
	}
}

func (c *client) reply(resp errorResponse) {
	select {
	case c.replies <- resp:
	default:
		slog.Warn("dropping websocket error reply", "subscription", c.sub.ID())
	}
}

func (c *client) writePump(ctx context.Context, readerDone <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			closeWithReason(c.conn, websocket.CloseGoingAway, "server closing")
			return
		case <-readerDone:
			return
		case message, ok := <-c.sub.Messages():
			if !ok {
				closeWithReason(c.conn, websocket.CloseGoingAway, "server closing")
				return
			}

			if err := c.writeJSON(message); err != nil {
				slog.WarnContext(ctx, "websocket write error", "subscription", c.sub.ID(), "error", err)
				return
			}
		case resp := <-c.replies:
			if err := c.writeJSON(resp); err != nil {
				slog.WarnContext(ctx, "websocket write error", "subscription", c.sub.ID(), "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) writeJSON(v any) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func closeWithReason(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(writeWait)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
}
