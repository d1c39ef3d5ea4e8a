package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/arthurdotwork/relay/internal/adapters/primary/grpc/relayv1"
	"github.com/arthurdotwork/relay/internal/adapters/secondary/messenger"
	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type RelayService interface {
	Publish(ctx context.Context, text string, user string) (domain.Message, error)
	History(ctx context.Context, afterID uint64) ([]domain.Message, error)
	Subscribe(ctx context.Context, afterID uint64) (*domain.Subscription, error)
	Unsubscribe(id uuid.UUID) error
}

type RelayServer struct {
	relayv1.UnimplementedRelayServiceServer
	relayService RelayService

	closing   chan struct{}
	closeOnce sync.Once
}

func NewRelayServer(relayService RelayService) *RelayServer {
	return &RelayServer{
		relayService: relayService,
		closing:      make(chan struct{}),
	}
}

func (s *RelayServer) Publish(ctx context.Context, req *relayv1.PublishRequest) (*relayv1.PublishResponse, error) {
	message, err := s.relayService.Publish(ctx, req.Text, req.User)
	if err != nil {
		return nil, toStatus(err)
	}

	return &relayv1.PublishResponse{Message: messenger.ToWire(message)}, nil
}

func (s *RelayServer) History(ctx context.Context, req *relayv1.HistoryRequest) (*relayv1.HistoryResponse, error) {
	messages, err := s.relayService.History(ctx, req.AfterId)
	if err != nil {
		return nil, toStatus(err)
	}

	return &relayv1.HistoryResponse{
		Messages: lo.Map(messages, func(m domain.Message, _ int) *relayv1.Message {
			return messenger.ToWire(m)
		}),
	}, nil
}

func (s *RelayServer) Subscribe(req *relayv1.SubscribeRequest, stream relayv1.RelayService_SubscribeServer) error {
	ctx := stream.Context()

	sub, err := s.relayService.Subscribe(ctx, req.AfterId)
	if err != nil {
		return toStatus(err)
	}
	defer func() {
		if err := s.relayService.Unsubscribe(sub.ID()); err != nil && !errors.Is(err, domain.ErrSubscriptionNotFound) {
			slog.ErrorContext(ctx, "error unsubscribing", "subscription", sub.ID(), "error", err)
		}
	}()

	slog.DebugContext(ctx, "client subscribed", "subscription", sub.ID(), "after_id", req.AfterId)
	messageManager := messenger.NewMessenger(stream)

	for {
		select {
		case <-ctx.Done():
			slog.DebugContext(ctx, "client disconnected", "subscription", sub.ID())
			return nil
		case <-s.closing:
			_ = messageManager.SendServerClosingNotification(ctx)
			return nil
		case message, ok := <-sub.Messages():
			if !ok {
				_ = messageManager.SendServerClosingNotification(ctx)
				return nil
			}

			if err := messageManager.SendMessage(ctx, message); err != nil {
				slog.ErrorContext(ctx, "error sending message", "subscription", sub.ID(), "error", err)
				return fmt.Errorf("messenger.SendMessage: %w", err)
			}
		}
	}
}

// Close tells every open Subscribe stream that the server is going away.
func (s *RelayServer) Close() {
	s.closeOnce.Do(func() {
		close(s.closing)
	})
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, domain.ErrFeedClosed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
