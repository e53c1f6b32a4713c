package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_IndexIsRowMajor(t *testing.T) {
	b := NewBoard(3, 4)
	require.Equal(t, 12, b.Len())
	assert.Equal(t, 0, b.Index(0, 0))
	assert.Equal(t, 6, b.Index(1, 2))
	assert.Equal(t, 11, b.Index(2, 3))
	assert.True(t, b.Contains(11))
	assert.False(t, b.Contains(12))
	assert.False(t, b.Contains(-1))
}

func TestBoard_WhackUpCell(t *testing.T) {
	b := NewBoard(1, 2)
	b.Raise(1)

	require.True(t, b.Whack(1))
	assert.Equal(t, Cell{Up: false, Whacked: true}, b.Get(1))

	select {
	case <-b.Whacks(1):
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("expected whack signal")
	}

	assert.False(t, b.Whack(1), "cell is already down")
	assert.Equal(t, Cell{}, b.Get(0), "other cells untouched")
}

func TestBoard_WhackDownCellChangesNothing(t *testing.T) {
	b := NewBoard(2, 2)
	before := b.Snapshot()

	assert.False(t, b.Whack(3))
	assert.Equal(t, before, b.Snapshot())

	select {
	case <-b.Whacks(3):
		t.Fatalf("no signal expected for a miss")
	default:
	}
}

func TestBoard_SettleAndLower(t *testing.T) {
	b := NewBoard(1, 1)

	b.Raise(0)
	assert.False(t, b.Settle(0), "nothing to settle without a whack")
	assert.True(t, b.Get(0).Up)

	b.Whack(0)
	assert.True(t, b.Settle(0))
	assert.Equal(t, Cell{}, b.Get(0))

	b.Raise(0)
	b.Whack(0)
	assert.True(t, b.Lower(0), "lower reports a pending whack")
	assert.Equal(t, Cell{}, b.Get(0))
}

func TestBoard_OutOfRangePanics(t *testing.T) {
	b := NewBoard(1, 1)
	assert.Panics(t, func() { b.Raise(1) })
	assert.Panics(t, func() { b.Whack(-1) })
}
