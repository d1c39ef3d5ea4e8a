package web

import (
	"context"
	"net/http"
	"time"

	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/google/uuid"
)

type RelayService interface {
	Publish(ctx context.Context, text string, user string) (domain.Message, error)
	History(ctx context.Context, afterID uint64) ([]domain.Message, error)
	Subscribe(ctx context.Context, afterID uint64) (*domain.Subscription, error)
	Unsubscribe(id uuid.UUID) error
	Listeners() int
}

type Config struct {
	AllowedOrigins []string
	MaxMessageSize int64
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func Routes(relayService RelayService, config Config) *http.ServeMux {
	handler := NewHandler(relayService, config)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("POST /messages", handler.Publish)
	mux.HandleFunc("GET /messages", handler.History)
	mux.HandleFunc("GET /ws", handler.WebSocket)

	return mux
}
