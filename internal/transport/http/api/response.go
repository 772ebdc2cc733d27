package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type Error struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// WriteJSON writes payload as-is. Resources are serialized directly, without
// an envelope.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("write json failed")
	}
}

func Success(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

// NotFound answers with a bare 404 and no body.
func NotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Error{Code: code, Message: message, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Error{Code: code, Message: message, Details: details, RequestID: requestID})
}
