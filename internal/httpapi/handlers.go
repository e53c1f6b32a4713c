// Package httpapi serves the read-only status surface of a running session
package httpapi

import (
	"encoding/json"
	"net/http"

	"wam-game/internal/server"
)

// StatusSource is satisfied by *server.Server
type StatusSource interface {
	Status() server.Status
}

func Status(src StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(src.Status())
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
