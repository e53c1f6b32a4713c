package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wam-game/internal/ws"
)

func SetupRoutes(src StatusSource, relay *ws.Relay) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/status", Status(src))
	if relay != nil {
		r.Get("/ws", ws.Handler(relay))
	}
	return r
}
