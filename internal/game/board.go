package game

import (
	"fmt"
	"sync"
)

// Cell is a copy of one cell's state
type Cell struct {
	Up      bool
	Whacked bool
}

type cell struct {
	mu      sync.Mutex
	up      bool
	whacked bool
	// whack wakes the cell's scheduler; capacity 1 so repeated whacks coalesce
	whack chan struct{}
}

// Board is the grid of mole cells, indexed row*cols + col.
// Each cell's up and whacked flags change together under the cell's own lock.
type Board struct {
	rows, cols int
	cells      []*cell
}

func NewBoard(rows, cols int) *Board {
	cells := make([]*cell, rows*cols)
	for i := range cells {
		cells[i] = &cell{whack: make(chan struct{}, 1)}
	}
	return &Board{rows: rows, cols: cols, cells: cells}
}

func (b *Board) Len() int { return len(b.cells) }

// Index converts a row and column into a cell index
func (b *Board) Index(row, col int) int {
	return row*b.cols + col
}

// Contains reports whether i addresses a cell
func (b *Board) Contains(i int) bool {
	return i >= 0 && i < len(b.cells)
}

func (b *Board) cell(i int) *cell {
	if !b.Contains(i) {
		panic(fmt.Sprintf("board: cell %d out of range [0,%d)", i, len(b.cells)))
	}
	return b.cells[i]
}

// Get returns a consistent copy of cell i
func (b *Board) Get(i int) Cell {
	c := b.cell(i)
	c.mu.Lock()
	defer c.mu.Unlock()
	return Cell{Up: c.up, Whacked: c.whacked}
}

// Snapshot copies every cell
func (b *Board) Snapshot() []Cell {
	out := make([]Cell, len(b.cells))
	for i := range b.cells {
		out[i] = b.Get(i)
	}
	return out
}

// Raise puts cell i up
func (b *Board) Raise(i int) {
	c := b.cell(i)
	c.mu.Lock()
	c.up = true
	c.mu.Unlock()
}

// Lower puts cell i down and clears its whacked flag. It reports whether the
// cell had been whacked down since its last transition.
func (b *Board) Lower(i int) bool {
	c := b.cell(i)
	c.mu.Lock()
	defer c.mu.Unlock()
	was := c.whacked
	c.up = false
	c.whacked = false
	return was
}

// Settle completes a whack: if cell i was whacked, it is left down with the
// flag cleared and Settle reports true. Otherwise the cell is untouched.
func (b *Board) Settle(i int) bool {
	c := b.cell(i)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.whacked {
		return false
	}
	c.up = false
	c.whacked = false
	return true
}

// Whack knocks cell i down if it is up, marking it whacked and waking its
// scheduler. It reports whether the mole was hit.
func (b *Board) Whack(i int) bool {
	c := b.cell(i)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.up {
		return false
	}
	c.up = false
	c.whacked = true
	select {
	case c.whack <- struct{}{}:
	default:
	}
	return true
}

// Whacks delivers a signal each time cell i is hit
func (b *Board) Whacks(i int) <-chan struct{} {
	return b.cell(i).whack
}
