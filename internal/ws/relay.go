// Package ws streams session broadcasts to websocket spectators
package ws

import (
	"context"
	"strings"

	"wam-game/pkg/logger"
)

type Msg interface{ isRelayMsg() }

type Join struct {
	ID     string
	Outbox chan string // lines for this spectator
}

func (Join) isRelayMsg() {}

type Leave struct{ ID string }

func (Leave) isRelayMsg() {}

type Publish struct{ Line string }

func (Publish) isRelayMsg() {}

type Count struct {
	Reply chan int
}

func (Count) isRelayMsg() {}

type Shutdown struct{}

func (Shutdown) isRelayMsg() {}

// Relay owns the spectator set. All state is touched only by its loop.
type Relay struct {
	inbox   chan Msg
	clients map[string]chan string
	// latest SCORE line, replayed to late joiners
	latest string
	ctx    context.Context
	cancel context.CancelFunc
}

func NewRelay(parent context.Context) *Relay {
	ctx, cancel := context.WithCancel(parent)

	r := &Relay{
		inbox:   make(chan Msg, 64),
		clients: make(map[string]chan string),
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

func (r *Relay) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.clients[msg.ID] = msg.Outbox
				if r.latest != "" {
					r.deliver(msg.ID, msg.Outbox, r.latest)
				}
				logger.Spectator.Debug("Spectator %s joined (%d watching)", msg.ID, len(r.clients))

			case Leave:
				if _, ok := r.clients[msg.ID]; ok {
					delete(r.clients, msg.ID)
					logger.Spectator.Debug("Spectator %s left", msg.ID)
				}

			case Publish:
				if strings.HasPrefix(msg.Line, "SCORE") {
					r.latest = msg.Line
				}
				for id, ch := range r.clients {
					r.deliver(id, ch, msg.Line)
				}

			case Count:
				msg.Reply <- len(r.clients)

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

// deliver never blocks. A spectator that cannot keep up is dropped.
func (r *Relay) deliver(id string, ch chan string, line string) {
	select {
	case ch <- line:
	default:
		close(ch)
		delete(r.clients, id)
		logger.Spectator.Warn("Dropped slow spectator %s", id)
	}
}

func (r *Relay) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}

func (r *Relay) send(m Msg) bool {
	if r.ctx.Err() != nil {
		return false
	}
	select {
	case r.inbox <- m:
		return true
	case <-r.ctx.Done():
		return false
	}
}

// Publish queues a line for every spectator. It never waits on the relay;
// lines are discarded when the inbox is full or the relay has stopped.
func (r *Relay) Publish(line string) {
	if r.ctx.Err() != nil {
		return
	}
	select {
	case r.inbox <- Publish{Line: line}:
	case <-r.ctx.Done():
	default:
		logger.Spectator.Debug("Relay busy, discarded %q", line)
	}
}

func (r *Relay) Join(id string, outbox chan string) bool { return r.send(Join{ID: id, Outbox: outbox}) }
func (r *Relay) Leave(id string)                         { r.send(Leave{ID: id}) }
func (r *Relay) Shutdown()                               { r.send(Shutdown{}) }
func (r *Relay) Done() <-chan struct{}                   { return r.ctx.Done() }

// Spectators reports how many viewers are attached, zero once stopped
func (r *Relay) Spectators() int {
	reply := make(chan int, 1)
	if !r.send(Count{Reply: reply}) {
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-r.ctx.Done():
		return 0
	}
}
