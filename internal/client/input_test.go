package client

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wam-game/internal/game"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want Command
	}{
		{"whack 0", Command{Kind: CmdWhack, Cell: 0}},
		{"  WHACK 11 ", Command{Kind: CmdWhack, Cell: 11}},
		{"w 5", Command{Kind: CmdWhack, Cell: 5}},
		{"2 3", Command{Kind: CmdWhack, Cell: 11}},
		{"0 0", Command{Kind: CmdWhack, Cell: 0}},
		{"board", Command{Kind: CmdBoard}},
		{"help", Command{Kind: CmdHelp}},
		{"quit", Command{Kind: CmdQuit}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseCommand(tc.line, 3, 4)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{"", "whack", "whack x", "whack 12", "whack -1", "3 0", "0 4", "1 2 3", "jump"} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseCommand(line, 3, 4)
			assert.ErrorIs(t, err, ErrBadCommand)
		})
	}
}

func TestInputHandler_LinesSkipsBlank(t *testing.T) {
	ih := NewInputHandler(strings.NewReader("whack 1\n\n   \nquit\n"))

	var got []string
	for line := range ih.Lines() {
		got = append(got, line)
	}
	assert.Equal(t, []string{"whack 1", "quit"}, got)
}

func TestDisplay_BoardAndScores(t *testing.T) {
	out := &bytes.Buffer{}
	d := NewDisplay(out)

	d.PrintBoard(2, 2, []bool{false, true, false, false})
	assert.Equal(t, " 0[ ] 1[M]\n 2[ ] 3[ ]\n", out.String())

	out.Reset()
	d.PrintScores([]game.Slot{game.Scored(3), game.Disconnected, game.Scored(-1)}, 3)
	assert.Equal(t, "[SCORE] P1: 3 | P2: gone | *P3: -1\n", out.String())
}
