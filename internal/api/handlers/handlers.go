package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dvloznov/ledger-bot/internal/api/middleware"
	"github.com/dvloznov/ledger-bot/internal/logger"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/rs/zerolog"
)

// Maximum webhook payload size (1MB - LINE deliveries are batches of small events)
const maxWebhookPayloadSize = 1 << 20

// Responder produces the reply text for an incoming chat message.
type Responder interface {
	Respond(ctx context.Context, text string) string
}

// Replier sends reply text back to the messaging platform.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// CallbackHandler handles LINE webhook deliveries.
type CallbackHandler struct {
	channelSecret string
	responder     Responder
	replier       Replier
	log           zerolog.Logger
}

// NewCallbackHandler creates a new callback handler.
func NewCallbackHandler(channelSecret string, responder Responder, replier Replier, log zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{
		channelSecret: channelSecret,
		responder:     responder,
		replier:       replier,
		log:           log,
	}
}

// HandleCallback handles POST /callback
func (h *CallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	ctx := logger.WithContext(r.Context(), h.log.With().Str("request_id", requestID).Logger())

	// Signature verification needs the raw body, so read it once and hand a copy to the SDK
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookPayloadSize+1))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) > maxWebhookPayloadSize {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Payload too large")
		return
	}

	h.log.Debug().Str("request_id", requestID).Str("body", string(body)).Msg("Webhook request body")
	r.Body = io.NopCloser(bytes.NewReader(body))

	cb, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.log.Warn().Str("request_id", requestID).Msg("Webhook signature verification failed")
			middleware.WriteError(w, http.StatusBadRequest, "Invalid signature")
			return
		}
		h.log.Error().Err(err).Str("request_id", requestID).Msg("Failed to parse webhook payload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to parse webhook payload")
		return
	}

	for _, event := range cb.Events {
		e, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		msg, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			continue
		}

		reply := h.responder.Respond(ctx, msg.Text)
		if err := h.replier.Reply(ctx, e.ReplyToken, reply); err != nil {
			h.log.Error().
				Err(err).
				Str("request_id", requestID).
				Str("webhook_event_id", e.WebhookEventId).
				Msg("Failed to send reply")
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// LedgerStatus reports whether a record source is configured.
type LedgerStatus interface {
	Available() bool
}

// HealthHandler handles GET /health
type HealthHandler struct {
	ledger LedgerStatus
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ledger LedgerStatus) *HealthHandler {
	return &HealthHandler{ledger: ledger}
}

// ServeHTTP reports liveness and whether the ledger is reachable from this process.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ledgerState := "configured"
	if !h.ledger.Available() {
		ledgerState = "unavailable"
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"ledger": ledgerState,
		"time":   time.Now().Format(time.RFC3339),
	})
}
