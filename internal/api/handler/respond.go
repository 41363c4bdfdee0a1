package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/reviewhub/xmpp-relay/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// mapError translates domain sentinel errors to HTTP status codes.
// All mapping lives here so individual handlers stay concise.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadPayload):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrHostEmpty),
		errors.Is(err, domain.ErrPortOutOfRange),
		errors.Is(err, domain.ErrTimeoutInvalid),
		errors.Is(err, domain.ErrSenderInvalid),
		errors.Is(err, domain.ErrRoomInvalid):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
