package game

import (
	"fmt"
	"sync"
)

// Slot is one player's entry in the score table: either a score or disconnected.
// The zero value is a disconnected slot.
type Slot struct {
	score     int
	connected bool
}

// Disconnected is the sentinel slot of a player who has left
var Disconnected = Slot{}

// Scored returns a connected slot holding score
func Scored(score int) Slot {
	return Slot{score: score, connected: true}
}

// Score returns the slot's score and false if the player is disconnected
func (s Slot) Score() (int, bool) {
	return s.score, s.connected
}

func (s Slot) IsConnected() bool { return s.connected }

func (s Slot) String() string {
	if !s.connected {
		return "x"
	}
	return fmt.Sprintf("%d", s.score)
}

// ScoreTable holds one slot per player. Players are addressed 1-based.
type ScoreTable struct {
	mu    sync.RWMutex
	slots []Slot
}

// NewScoreTable creates players connected slots, all at zero
func NewScoreTable(players int) *ScoreTable {
	slots := make([]Slot, players)
	for i := range slots {
		slots[i] = Scored(0)
	}
	return &ScoreTable{slots: slots}
}

func (t *ScoreTable) Len() int {
	return len(t.slots)
}

func (t *ScoreTable) index(player int) int {
	if player < 1 || player > len(t.slots) {
		panic(fmt.Sprintf("score table: player %d out of range [1,%d]", player, len(t.slots)))
	}
	return player - 1
}

// Get returns the slot of player
func (t *ScoreTable) Get(player int) Slot {
	i := t.index(player)
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots[i]
}

// Apply runs fn and adds the delta it returns, all while holding the table
// lock, so a concurrent Disconnect lands wholly before or after. fn is not
// called for a disconnected slot, which reports false.
func (t *ScoreTable) Apply(player int, fn func() int) (int, bool) {
	i := t.index(player)
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.slots[i]
	if !s.connected {
		return 0, false
	}
	s.score += fn()
	t.slots[i] = s
	return s.score, true
}

// Disconnect marks player as gone. It reports whether this call made the transition.
func (t *ScoreTable) Disconnect(player int) bool {
	i := t.index(player)
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.slots[i].connected {
		return false
	}
	t.slots[i] = Disconnected
	return true
}

// Snapshot copies all slots in player order
func (t *ScoreTable) Snapshot() []Slot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Slot, len(t.slots))
	copy(out, t.slots)
	return out
}

// ConnectedCount returns how many players are still connected
func (t *ScoreTable) ConnectedCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, s := range t.slots {
		if s.connected {
			n++
		}
	}
	return n
}

func (t *ScoreTable) AllDisconnected() bool {
	return t.ConnectedCount() == 0
}
