package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/reviewhub/xmpp-relay/internal/dispatch"
	"github.com/reviewhub/xmpp-relay/internal/domain"
)

// EventHandler receives the host application's event webhooks, one endpoint
// per event kind. Every decodable event is answered 202 regardless of
// delivery outcome: failures are invisible to the host by contract.
type EventHandler struct {
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

func NewEventHandler(d *dispatch.Dispatcher, logger *zap.Logger) *EventHandler {
	return &EventHandler{dispatcher: d, logger: logger}
}

// ReviewRequestPublished handles POST /api/v1/events/review-request-published
func (h *EventHandler) ReviewRequestPublished(w http.ResponseWriter, r *http.Request) {
	var ev domain.ReviewRequestPublished
	if !h.decode(w, r, &ev) {
		return
	}
	h.dispatcher.ReviewRequestPublished(r.Context(), ev)
	accepted(w)
}

// ReviewRequestReopened handles POST /api/v1/events/review-request-reopened
func (h *EventHandler) ReviewRequestReopened(w http.ResponseWriter, r *http.Request) {
	var ev domain.ReviewRequestReopened
	if !h.decode(w, r, &ev) {
		return
	}
	h.dispatcher.ReviewRequestReopened(r.Context(), ev)
	accepted(w)
}

// ReviewRequestClosed handles POST /api/v1/events/review-request-closed
func (h *EventHandler) ReviewRequestClosed(w http.ResponseWriter, r *http.Request) {
	var ev domain.ReviewRequestClosed
	if !h.decode(w, r, &ev) {
		return
	}
	h.dispatcher.ReviewRequestClosed(r.Context(), ev)
	accepted(w)
}

// ReviewPublished handles POST /api/v1/events/review-published
func (h *EventHandler) ReviewPublished(w http.ResponseWriter, r *http.Request) {
	var ev domain.ReviewPublished
	if !h.decode(w, r, &ev) {
		return
	}
	h.dispatcher.ReviewPublished(r.Context(), ev)
	accepted(w)
}

// ReplyPublished handles POST /api/v1/events/reply-published
func (h *EventHandler) ReplyPublished(w http.ResponseWriter, r *http.Request) {
	var ev domain.ReplyPublished
	if !h.decode(w, r, &ev) {
		return
	}
	h.dispatcher.ReplyPublished(r.Context(), ev)
	accepted(w)
}

// UserRegistered handles POST /api/v1/events/user-registered
func (h *EventHandler) UserRegistered(w http.ResponseWriter, r *http.Request) {
	var ev domain.UserRegistered
	if !h.decode(w, r, &ev) {
		return
	}
	h.dispatcher.UserRegistered(r.Context(), ev)
	accepted(w)
}

func (h *EventHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Warn("undecodable event payload",
			zap.String("path", r.URL.Path), zap.Error(err))
		mapError(w, fmt.Errorf("%w: %v", domain.ErrBadPayload, err))
		return false
	}
	return true
}

func accepted(w http.ResponseWriter) {
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
