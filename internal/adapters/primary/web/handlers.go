package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/gorilla/websocket"
)

type publishRequest struct {
	Text string `json:"text"`
	User string `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Listeners int    `json:"listeners"`
}

type Handler struct {
	relayService RelayService
	config       Config
	upgrader     websocket.Upgrader
}

func NewHandler(relayService RelayService, config Config) *Handler {
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = defaultMaxMessageSize
	}

	origins := newOriginPolicy(config.AllowedOrigins)

	return &Handler{
		relayService: relayService,
		config:       config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.check,
		},
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Listeners: h.relayService.Listeners()})
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxMessageSize)

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	message, err := h.relayService.Publish(r.Context(), req.Text, req.User)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	afterID, err := parseAfter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	messages, err := h.relayService.History(r.Context(), afterID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if messages == nil {
		messages = []domain.Message{}
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	afterID, err := parseAfter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "error upgrading connection", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	ctx := r.Context()

	sub, err := h.relayService.Subscribe(ctx, afterID)
	if err != nil {
		slog.ErrorContext(ctx, "error subscribing websocket client", "error", err)
		closeWithReason(conn, websocket.CloseTryAgainLater, "relay unavailable")
		_ = conn.Close()
		return
	}

	client := newClient(conn, sub, h.relayService, h.config.MaxMessageSize)
	client.run(ctx)
}

func parseAfter(r *http.Request) (uint64, error) {
	raw := r.URL.Query().Get("after")
	if raw == "" {
		return 0, nil
	}

	afterID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("after must be a non-negative integer")
	}

	return afterID, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, domain.ErrFeedClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "error handling request", "path", r.URL.Path, "error", err)
	}

	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("error writing response", "error", err)
	}
}
