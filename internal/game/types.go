package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrInvalidConfig    = errors.New("invalid session config")
	ErrCellOutOfRange   = errors.New("cell index out of range")
	ErrPlayerOutOfRange = errors.New("player index out of range")
)

const (
	// HitPoints is awarded for whacking a mole that is up
	HitPoints = 2
	// MissPoints is applied for whacking a cell that is down
	MissPoints = -1

	DefaultTick = 100 * time.Millisecond
)

// DwellRange bounds how long a cell stays in one state
type DwellRange struct {
	Min time.Duration `json:"min"`
	Max time.Duration `json:"max"`
}

var (
	DefaultUpDwell   = DwellRange{Min: 1 * time.Second, Max: 2 * time.Second}
	DefaultDownDwell = DwellRange{Min: 3 * time.Second, Max: 10 * time.Second}
)

// Draw picks a duration uniformly from [Min, Max]
func (d DwellRange) Draw(rng *rand.Rand) time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + time.Duration(rng.Int63n(int64(d.Max-d.Min)+1))
}

func (d DwellRange) valid() bool {
	return d.Min > 0 && d.Max >= d.Min
}

// Config is the immutable description of one session
type Config struct {
	Rows     int
	Cols     int
	Players  int
	Duration time.Duration

	UpDwell   DwellRange
	DownDwell DwellRange
	Tick      time.Duration
}

// NewConfig returns a config with default dwell ranges and clock tick
func NewConfig(rows, cols, players int, duration time.Duration) Config {
	return Config{
		Rows:      rows,
		Cols:      cols,
		Players:   players,
		Duration:  duration,
		UpDwell:   DefaultUpDwell,
		DownDwell: DefaultDownDwell,
		Tick:      DefaultTick,
	}
}

// Cells is the number of mole cells on the board
func (c Config) Cells() int {
	return c.Rows * c.Cols
}

// Validate reports the first unusable parameter
func (c Config) Validate() error {
	switch {
	case c.Rows < 1 || c.Cols < 1:
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Rows, c.Cols)
	case c.Players < 1:
		return fmt.Errorf("%w: need at least one player, got %d", ErrInvalidConfig, c.Players)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	case !c.UpDwell.valid():
		return fmt.Errorf("%w: bad up dwell %v-%v", ErrInvalidConfig, c.UpDwell.Min, c.UpDwell.Max)
	case !c.DownDwell.valid():
		return fmt.Errorf("%w: bad down dwell %v-%v", ErrInvalidConfig, c.DownDwell.Min, c.DownDwell.Max)
	case c.Tick <= 0:
		return fmt.Errorf("%w: clock tick must be positive", ErrInvalidConfig)
	}
	return nil
}

// Result is a connected player's final outcome
type Result string

const (
	ResultWon  Result = "won"
	ResultLost Result = "lost"
	ResultTied Result = "tied"
)
