package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"filedrive/internal/engine/identity"
	"filedrive/internal/pkg/errors"
)

const maxWebhookBody = 1 << 20

// WebhookHandler receives user and membership sync events pushed by the
// external identity provider.
type WebhookHandler struct {
	identity *identity.Service
	secret   string
}

func NewWebhookHandler(identitySvc *identity.Service, secret string) *WebhookHandler {
	return &WebhookHandler{identity: identitySvc, secret: secret}
}

func (h *WebhookHandler) HandleIdentityEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Failed to read request body", nil)
		return
	}

	signature := r.Header.Get("X-Webhook-Signature")
	if !identity.Verify(h.secret, body, signature) {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthenticated, "Invalid webhook signature", nil)
		return
	}

	var event identity.Event
	if err := json.Unmarshal(body, &event); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid event payload", nil)
		return
	}

	if err := h.identity.Apply(&event); err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("failed to apply identity event")
		errors.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
