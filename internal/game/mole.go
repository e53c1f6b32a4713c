package game

import (
	"context"
	"math/rand"
	"time"
)

// TransitionFunc is told about every scheduler transition of a cell
type TransitionFunc func(cell int, up bool)

// MoleScheduler drives one cell between down and up on randomized dwell times
type MoleScheduler struct {
	cell   int
	board  *Board
	up     DwellRange
	down   DwellRange
	rng    *rand.Rand
	notify TransitionFunc
}

func NewMoleScheduler(cell int, board *Board, cfg Config, seed int64, notify TransitionFunc) *MoleScheduler {
	return &MoleScheduler{
		cell:   cell,
		board:  board,
		up:     cfg.UpDwell,
		down:   cfg.DownDwell,
		rng:    rand.New(rand.NewSource(seed)),
		notify: notify,
	}
}

// Run alternates the cell until ctx is done. The cell starts down.
func (m *MoleScheduler) Run(ctx context.Context) {
	timer := time.NewTimer(m.down.Draw(m.rng))
	defer timer.Stop()

	isUp := false
	for {
		select {
		case <-ctx.Done():
			return

		case <-timer.C:
			if isUp {
				m.board.Lower(m.cell)
				timer.Reset(m.down.Draw(m.rng))
			} else {
				m.board.Raise(m.cell)
				timer.Reset(m.up.Draw(m.rng))
			}
			isUp = !isUp
			m.transition(ctx, isUp)

		case <-m.board.Whacks(m.cell):
			// a hit that raced the timer was already announced by the timer branch
			if !isUp || !m.board.Settle(m.cell) {
				continue
			}
			isUp = false
			timer.Reset(m.down.Draw(m.rng))
			m.transition(ctx, false)
		}
	}
}

func (m *MoleScheduler) transition(ctx context.Context, up bool) {
	if ctx.Err() != nil || m.notify == nil {
		return
	}
	m.notify(m.cell, up)
}
