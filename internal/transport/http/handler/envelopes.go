package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bomberman-api/internal/domain"
	"github.com/bomberman-api/internal/pkg/logx"
)

// Envelope is the generic response wrapper. Every response carries success.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

// UsersEnvelope wraps list responses; users is always present.
type UsersEnvelope struct {
	Success bool          `json:"success"`
	Users   []domain.User `json:"users"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Message: msg})
}

// fail logs err with the request logger and answers with msg.
// Server-side failures log at error level, client errors at info.
func fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	log := logx.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "status", status, "err", err)
	} else {
		log.Info("request rejected", "status", status, "err", err)
	}
	writeError(w, status, msg)
}
