package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"wam-game/pkg/logger"
)

const (
	outboxSize   = 32
	writeTimeout = 3 * time.Second
)

// Handler upgrades the request and streams relay lines as text frames until
// the viewer goes away or the relay stops. Anything the viewer sends is ignored.
func Handler(relay *Relay) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			logger.Spectator.Warn("Websocket upgrade failed: %v", err)
			return
		}
		defer conn.CloseNow()

		id := uuid.NewString()
		out := make(chan string, outboxSize)
		if !relay.Join(id, out) {
			conn.Close(websocket.StatusGoingAway, "session over")
			return
		}
		defer relay.Leave(id)

		ctx := conn.CloseRead(r.Context())
		for {
			select {
			case <-ctx.Done():
				return
			case <-relay.Done():
				flush(ctx, conn, out)
				conn.Close(websocket.StatusGoingAway, "session over")
				return
			case line, ok := <-out:
				if !ok {
					conn.Close(websocket.StatusGoingAway, "session over")
					return
				}
				if err := write(ctx, conn, line); err != nil {
					logger.Spectator.Debug("Spectator %s write failed: %v", id, err)
					return
				}
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, line string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, []byte(line))
}

// flush writes whatever is still buffered for a viewer of a stopped relay
func flush(ctx context.Context, conn *websocket.Conn, out <-chan string) {
	for {
		select {
		case line, ok := <-out:
			if !ok || write(ctx, conn, line) != nil {
				return
			}
		default:
			return
		}
	}
}
