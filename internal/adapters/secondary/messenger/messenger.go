package messenger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arthurdotwork/relay/internal/adapters/primary/grpc/relayv1"
	"github.com/arthurdotwork/relay/internal/domain"
)

type Messenger struct {
	Stream relayv1.RelayService_SubscribeServer
}

func NewMessenger(stream relayv1.RelayService_SubscribeServer) *Messenger {
	return &Messenger{Stream: stream}
}

func ToWire(msg domain.Message) *relayv1.Message {
	return &relayv1.Message{
		Id:        msg.ID,
		Text:      msg.Text,
		User:      msg.User,
		Timestamp: msg.Timestamp,
	}
}

func (m *Messenger) SendMessage(ctx context.Context, msg domain.Message) error {
	if err := m.Stream.Send(&relayv1.ServerEvent{Message: ToWire(msg)}); err != nil {
		return fmt.Errorf("stream.Send: %w", err)
	}

	return nil
}

func (m *Messenger) SendServerClosingNotification(ctx context.Context) error {
	msg := &relayv1.ServerEvent{
		ServerClosing: &relayv1.ServerClosing{
			Message: "server is closing",
		},
	}

	slog.DebugContext(ctx, "sending server closing notification")

	if err := m.Stream.Send(msg); err != nil {
		slog.ErrorContext(ctx, "failed to send server closing", "error", err)
		return fmt.Errorf("stream.Send: %w", err)
	}

	slog.DebugContext(ctx, "server closing notification sent")
	return nil
}
