package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ziadkadry99/agentic/internal/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

// writeError maps the error kind to an HTTP status: validation errors are
// the client's fault, upstream errors mean a backing service misbehaved,
// everything else is internal.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
	case apperr.IsUpstream(err):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		log.Printf("server: internal error: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
