// Package server implements the TCP session server for whack-a-mole
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"wam-game/internal/game"
	"wam-game/internal/network"
	"wam-game/pkg/logger"
)

var (
	// ErrAborted is returned when the session is stopped before every player joined
	ErrAborted = errors.New("session aborted before all players connected")
	// ErrUnexpectedMessage is a well-formed message players are not allowed to send
	ErrUnexpectedMessage = errors.New("unexpected message")
)

// finalWriteGrace bounds how long the final SCORE and result may take per player
const finalWriteGrace = 5 * time.Second

// Publisher receives a copy of every line broadcast to all players
type Publisher interface {
	Publish(line string)
}

// Server runs exactly one session
type Server struct {
	address string
	id      string
	engine  *game.GameEngine

	mu        sync.RWMutex
	listener  net.Listener
	closeOnce sync.Once
	players   []*Player

	// pending holds at most one token: a SCORE broadcast is due
	pending   chan struct{}
	publisher Publisher
	logger    *logger.Logger
}

// NewServer creates a server that will listen on address
func NewServer(address string, cfg game.Config) *Server {
	return &Server{
		address: address,
		id:      uuid.NewString(),
		engine:  game.NewGameEngine(cfg),
		pending: make(chan struct{}, 1),
		logger:  logger.Server,
	}
}

func (s *Server) ID() string                 { return s.id }
func (s *Server) Engine() *game.GameEngine   { return s.engine }
func (s *Server) SetPublisher(p Publisher)   { s.publisher = p }
func (s *Server) SetLogger(l *logger.Logger) { s.logger = l }

// Listen binds the listening socket
func (s *Server) Listen() error {
	l, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
	s.logger.Info("Server %s listening on %s", s.id, l.Addr())
	return nil
}

// Addr is the bound address, nil before Listen
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop ends the session early. Results are still sent if play had begun.
func (s *Server) Stop() {
	s.engine.Clock().End()
}

// Run accepts every player, plays the session and returns the final standings.
// Only failures before gameplay are returned as errors.
func (s *Server) Run(ctx context.Context) ([]game.Standing, error) {
	if s.Addr() == nil {
		if err := s.Listen(); err != nil {
			return nil, err
		}
	}
	if err := s.acceptPlayers(ctx); err != nil {
		s.teardown()
		return nil, err
	}

	cfg := s.engine.Config()
	s.logger.Info("All %d players connected, starting %v session on a %dx%d board",
		cfg.Players, cfg.Duration, cfg.Rows, cfg.Cols)

	s.play(ctx)

	standings := s.engine.Standings()
	s.announce(standings)
	s.teardown()
	return standings, nil
}

// acceptPlayers takes exactly Players connections in order and welcomes each one
func (s *Server) acceptPlayers(ctx context.Context) error {
	cfg := s.engine.Config()

	accepted := make(chan struct{})
	defer close(accepted)
	go func() {
		select {
		case <-ctx.Done():
		case <-s.engine.Clock().Done():
		case <-accepted:
			return
		}
		s.closeListener()
	}()

	for i := 1; i <= cfg.Players; i++ {
		s.logger.Info("Waiting for player %d of %d to connect...", i, cfg.Players)

		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || s.engine.Clock().Over() {
				return ErrAborted
			}
			return fmt.Errorf("accept player %d: %w", i, err)
		}

		p := newPlayer(i, conn)
		s.mu.Lock()
		s.players = append(s.players, p)
		s.mu.Unlock()

		if err := p.Send(network.NewWelcome(cfg.Rows, cfg.Cols, cfg.Players, i)); err != nil {
			// its listener will see the broken connection and drop it
			s.logger.Warn("Failed to welcome player %d: %v", i, err)
		}
		s.logger.Info("Player %d connected from %s", i, p.RemoteAddr())
	}
	return nil
}

// play runs the clock, one scheduler per cell and one listener per player
// while this goroutine flushes score broadcasts. It returns once every task
// has stopped.
func (s *Server) play(ctx context.Context) {
	clock := s.engine.Clock()

	sessionCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info("Session interrupted")
			clock.End()
		case <-clock.Done():
		}
		cancel()
	}()

	g, gctx := errgroup.WithContext(sessionCtx)
	g.Go(func() error {
		s.engine.StartClock(gctx)
		return nil
	})
	for _, m := range s.engine.Schedulers(s.moleTransition) {
		m := m
		g.Go(func() error {
			m.Run(gctx)
			return nil
		})
	}
	for _, p := range s.players {
		p := p
		g.Go(func() error {
			s.listen(gctx, p)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		for _, p := range s.players {
			p.interrupt()
		}
		return nil
	})

	// everyone gets an initial all-zero SCORE
	s.markPending()
	s.broadcastLoop(gctx)

	_ = g.Wait()
	if clock.Elapsed() >= s.engine.Config().Duration {
		s.logger.Info("Time's up")
	}
}

// broadcastLoop flushes pending SCORE updates until the session is over
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.pending:
			s.broadcast(network.NewScore(s.engine.Scores().Snapshot()))
			if s.engine.Scores().AllDisconnected() {
				s.logger.Info("All players disconnected from server")
				s.engine.Clock().End()
				return
			}
		}
	}
}

func (s *Server) markPending() {
	select {
	case s.pending <- struct{}{}:
	default:
	}
}

func (s *Server) moleTransition(cell int, up bool) {
	if up {
		s.broadcast(network.NewMoleUp(cell))
	} else {
		s.broadcast(network.NewMoleDown(cell))
	}
}

// broadcast sends msg to every connected player
func (s *Server) broadcast(msg *network.Message) {
	line := msg.Encode()
	scores := s.engine.Scores()

	for _, p := range s.players {
		if !scores.Get(p.Index).IsConnected() {
			continue
		}
		if err := p.sendLine(line); err != nil && !s.engine.Clock().Over() {
			s.drop(p, fmt.Sprintf("write failed: %v", err))
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(line)
	}
}

// listen decodes the player's messages until the connection ends, the player
// misbehaves or the session is over
func (s *Server) listen(ctx context.Context, p *Player) {
	for p.reader.Scan() {
		if ctx.Err() != nil {
			return
		}
		if err := s.handleLine(p, p.reader.Text()); err != nil {
			s.reject(p, err)
			return
		}
	}

	if ctx.Err() != nil {
		return
	}
	err := p.reader.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		s.reject(p, fmt.Errorf("%w: line longer than %d bytes", network.ErrMalformed, maxLineBytes))
		return
	}

	reason := "connection closed"
	if err != nil {
		reason = err.Error()
	}
	p.closeRead()
	s.drop(p, reason)
}

func (s *Server) handleLine(p *Player, line string) error {
	msg, err := network.Decode(line)
	if err != nil {
		return err
	}
	if msg.Type != network.MsgWhack {
		return fmt.Errorf("%w: %s", ErrUnexpectedMessage, msg.Type)
	}

	// the WHACK names the slot it scores for; a gone slot is never changed
	outcome, err := s.engine.Whack(msg.Player, msg.Cell)
	if err != nil {
		return err
	}
	s.logger.Debug("Player %d whacked cell %d for player %d: %s", p.Index, msg.Cell, msg.Player, outcome)
	if outcome != game.OutcomeIgnored {
		s.markPending()
	}
	return nil
}

// reject answers a protocol violation with ERROR and drops the player
func (s *Server) reject(p *Player, cause error) {
	s.logger.Warn("Player %d sent an improper message: %v", p.Index, cause)
	if err := p.Send(network.NewError(cause.Error())); err != nil {
		s.logger.Debug("Could not send ERROR to player %d: %v", p.Index, err)
	}
	p.closeRead()
	s.drop(p, "protocol error")
}

// drop marks the player disconnected and schedules a SCORE broadcast
func (s *Server) drop(p *Player, reason string) {
	if s.engine.Disconnect(p.Index) {
		s.logger.Info("Player %d disconnected: %s", p.Index, reason)
		s.markPending()
	}
}

// announce sends the final SCORE and result line to each connected player
func (s *Server) announce(standings []game.Standing) {
	final := network.NewScore(s.engine.Scores().Snapshot())
	deadline := time.Now().Add(finalWriteGrace)

	for _, st := range standings {
		p := s.players[st.Player-1]
		p.allowWrites(deadline)

		err := multierr.Append(p.Send(final), p.Send(network.NewResult(st.Result)))
		if err != nil {
			s.logger.Warn("Could not deliver result to player %d: %v", st.Player, err)
			continue
		}
		s.logger.Info("Player %d %s with %d points", st.Player, st.Result, st.Score)
	}

	if s.publisher != nil {
		s.publisher.Publish(final.Encode())
	}
}

func (s *Server) closeListener() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.RLock()
		l := s.listener
		s.mu.RUnlock()
		if l != nil {
			err = l.Close()
		}
	})
	return err
}

// teardown closes every connection and the listening socket
func (s *Server) teardown() {
	var err error
	for _, p := range s.players {
		err = multierr.Append(err, p.Close())
	}
	err = multierr.Append(err, s.closeListener())
	if err != nil {
		s.logger.Warn("Errors during shutdown: %v", err)
	}
	s.logger.Info("Server shutdown")
}
