// Package game implements the whack-a-mole rules and shared session state
package game

import (
	"context"
	"fmt"
	"time"
)

// Outcome is what a whack did to the session
type Outcome int

const (
	// OutcomeIgnored means the player was already disconnected
	OutcomeIgnored Outcome = iota
	OutcomeHit
	OutcomeMiss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	default:
		return "ignored"
	}
}

// GameEngine owns the board, score table and clock of one session
type GameEngine struct {
	cfg    Config
	board  *Board
	scores *ScoreTable
	clock  *Clock
	seed   int64
}

// NewGameEngine allocates session state for a validated config
func NewGameEngine(cfg Config) *GameEngine {
	return &GameEngine{
		cfg:    cfg,
		board:  NewBoard(cfg.Rows, cfg.Cols),
		scores: NewScoreTable(cfg.Players),
		clock:  NewClock(cfg.Duration, cfg.Tick),
		seed:   time.Now().UnixNano(),
	}
}

func (ge *GameEngine) Config() Config        { return ge.cfg }
func (ge *GameEngine) Board() *Board         { return ge.board }
func (ge *GameEngine) Scores() *ScoreTable   { return ge.scores }
func (ge *GameEngine) Clock() *Clock         { return ge.clock }
func (ge *GameEngine) IsRunning() bool       { return !ge.clock.Over() }
func (ge *GameEngine) Standings() []Standing { return Rank(ge.scores.Snapshot()) }

// Disconnect marks player gone; it reports false if they already were
func (ge *GameEngine) Disconnect(player int) bool {
	return ge.scores.Disconnect(player)
}

// Whack applies player's hit on cell: +2 if the mole was up (and knocks it down),
// -1 otherwise. Whacks from disconnected players change nothing.
func (ge *GameEngine) Whack(player, cell int) (Outcome, error) {
	if player < 1 || player > ge.scores.Len() {
		return OutcomeIgnored, fmt.Errorf("%w: %d", ErrPlayerOutOfRange, player)
	}
	if !ge.board.Contains(cell) {
		return OutcomeIgnored, fmt.Errorf("%w: %d", ErrCellOutOfRange, cell)
	}

	outcome := OutcomeIgnored
	ge.scores.Apply(player, func() int {
		if ge.board.Whack(cell) {
			outcome = OutcomeHit
			return HitPoints
		}
		outcome = OutcomeMiss
		return MissPoints
	})
	return outcome, nil
}

// Schedulers builds one mole scheduler per cell. Transitions after the clock
// has ended are not passed to notify.
func (ge *GameEngine) Schedulers(notify TransitionFunc) []*MoleScheduler {
	var gated TransitionFunc
	if notify != nil {
		gated = func(cell int, up bool) {
			if ge.clock.Over() {
				return
			}
			notify(cell, up)
		}
	}

	out := make([]*MoleScheduler, ge.board.Len())
	for i := range out {
		out[i] = NewMoleScheduler(i, ge.board, ge.cfg, ge.seed+int64(i), gated)
	}
	return out
}

// StartClock runs the session clock until it ends or ctx is done
func (ge *GameEngine) StartClock(ctx context.Context) {
	ge.clock.Run(ctx)
}
