package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wam-game/internal/game"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		name string
		msg  *Message
		want string
	}{
		{"welcome", NewWelcome(3, 4, 2, 1), "WELCOME 3 4 2 1"},
		{"mole up", NewMoleUp(7), "MOLE_UP 7"},
		{"mole down", NewMoleDown(0), "MOLE_DOWN 0"},
		{"whack", NewWhack(5, 2), "WHACK 5 2"},
		{"score", NewScore([]game.Slot{game.Scored(5), game.Disconnected, game.Scored(-2)}), "SCORE 5 x -2"},
		{"won", NewResult(game.ResultWon), "GAME_WON"},
		{"lost", NewResult(game.ResultLost), "GAME_LOST"},
		{"tied", NewResult(game.ResultTied), "GAME_TIED"},
		{"error", NewError("improper protocol"), "ERROR improper protocol"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.msg.Encode())
		})
	}
}

func TestScoreRoundTrip(t *testing.T) {
	in := []game.Slot{game.Scored(5), game.Disconnected, game.Scored(12)}

	msg, err := Decode(NewScore(in).Encode())
	require.NoError(t, err)
	assert.Equal(t, MsgScore, msg.Type)
	assert.Equal(t, in, msg.Scores)
}

func TestDecode(t *testing.T) {
	msg, err := Decode("WELCOME 2 3 4 1\n")
	require.NoError(t, err)
	assert.Equal(t, NewWelcome(2, 3, 4, 1), msg)

	msg, err = Decode("WHACK 4 2")
	require.NoError(t, err)
	assert.Equal(t, NewWhack(4, 2), msg)

	msg, err = Decode("MOLE_DOWN 11")
	require.NoError(t, err)
	assert.Equal(t, 11, msg.Cell)

	msg, err = Decode("GAME_TIED")
	require.NoError(t, err)
	result, ok := msg.Result()
	assert.True(t, ok)
	assert.Equal(t, game.ResultTied, result)

	msg, err = Decode("ERROR - Improper protocol")
	require.NoError(t, err)
	assert.Equal(t, "- Improper protocol", msg.Text)
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		line string
		want error
	}{
		{"", ErrMalformed},
		{"   ", ErrMalformed},
		{"HELLO 1 2", ErrUnknownMessage},
		{"whack 1 1", ErrUnknownMessage},
		{"WHACK 1", ErrMalformed},
		{"WHACK 1 2 3", ErrMalformed},
		{"WHACK one 2", ErrMalformed},
		{"MOLE_UP", ErrMalformed},
		{"GAME_WON now", ErrMalformed},
		{"SCORE 1 y 3", ErrMalformed},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			_, err := Decode(tc.line)
			if err == nil || !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}
