// Package network implements the line-oriented wire protocol shared by server and client
package network

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wam-game/internal/game"
)

// MessageType is the first token of every line
type MessageType string

const (
	// Handshake
	MsgWelcome MessageType = "WELCOME"

	// Board updates
	MsgMoleUp   MessageType = "MOLE_UP"
	MsgMoleDown MessageType = "MOLE_DOWN"

	// Player action
	MsgWhack MessageType = "WHACK"

	// Scores and results
	MsgScore    MessageType = "SCORE"
	MsgGameWon  MessageType = "GAME_WON"
	MsgGameLost MessageType = "GAME_LOST"
	MsgGameTied MessageType = "GAME_TIED"

	// System
	MsgError MessageType = "ERROR"
)

// DisconnectedToken marks a disconnected slot in a SCORE line
const DisconnectedToken = "x"

var (
	ErrUnknownMessage = errors.New("unknown message")
	ErrMalformed      = errors.New("malformed message")
)

// Message is one decoded protocol line. Only the fields of its Type are set.
type Message struct {
	Type MessageType

	// WELCOME
	Rows    int
	Cols    int
	Players int

	// WELCOME, WHACK (1-based)
	Player int

	// MOLE_UP, MOLE_DOWN, WHACK
	Cell int

	// SCORE
	Scores []game.Slot

	// ERROR
	Text string
}

// fixed token counts, including the type token
var arity = map[MessageType]int{
	MsgWelcome:  5,
	MsgMoleUp:   2,
	MsgMoleDown: 2,
	MsgWhack:    3,
	MsgGameWon:  1,
	MsgGameLost: 1,
	MsgGameTied: 1,
}

func NewWelcome(rows, cols, players, player int) *Message {
	return &Message{Type: MsgWelcome, Rows: rows, Cols: cols, Players: players, Player: player}
}

func NewMoleUp(cell int) *Message   { return &Message{Type: MsgMoleUp, Cell: cell} }
func NewMoleDown(cell int) *Message { return &Message{Type: MsgMoleDown, Cell: cell} }

func NewWhack(cell, player int) *Message {
	return &Message{Type: MsgWhack, Cell: cell, Player: player}
}

// NewScore copies slots into a SCORE message
func NewScore(slots []game.Slot) *Message {
	scores := make([]game.Slot, len(slots))
	copy(scores, slots)
	return &Message{Type: MsgScore, Scores: scores}
}

// NewResult maps a final result to GAME_WON, GAME_LOST or GAME_TIED
func NewResult(result game.Result) *Message {
	switch result {
	case game.ResultWon:
		return &Message{Type: MsgGameWon}
	case game.ResultTied:
		return &Message{Type: MsgGameTied}
	default:
		return &Message{Type: MsgGameLost}
	}
}

func NewError(text string) *Message {
	return &Message{Type: MsgError, Text: text}
}

// Result reports the final outcome carried by a GAME_* message
func (m *Message) Result() (game.Result, bool) {
	switch m.Type {
	case MsgGameWon:
		return game.ResultWon, true
	case MsgGameLost:
		return game.ResultLost, true
	case MsgGameTied:
		return game.ResultTied, true
	}
	return "", false
}

// Encode renders the message as a line without the trailing newline
func (m *Message) Encode() string {
	var b strings.Builder
	b.WriteString(string(m.Type))

	switch m.Type {
	case MsgWelcome:
		fmt.Fprintf(&b, " %d %d %d %d", m.Rows, m.Cols, m.Players, m.Player)
	case MsgMoleUp, MsgMoleDown:
		fmt.Fprintf(&b, " %d", m.Cell)
	case MsgWhack:
		fmt.Fprintf(&b, " %d %d", m.Cell, m.Player)
	case MsgScore:
		for _, s := range m.Scores {
			b.WriteByte(' ')
			b.WriteString(s.String())
		}
	case MsgError:
		if m.Text != "" {
			b.WriteByte(' ')
			b.WriteString(m.Text)
		}
	}
	return b.String()
}

func (m *Message) String() string { return m.Encode() }

// Decode parses one line. Unknown types fail with ErrUnknownMessage; wrong
// token counts or non-numeric fields fail with ErrMalformed.
func Decode(line string) (*Message, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty line", ErrMalformed)
	}

	msg := &Message{Type: MessageType(tokens[0])}
	switch msg.Type {
	case MsgScore:
		scores, err := decodeScores(tokens[1:])
		if err != nil {
			return nil, err
		}
		msg.Scores = scores
		return msg, nil

	case MsgError:
		msg.Text = strings.Join(tokens[1:], " ")
		return msg, nil
	}

	want, ok := arity[msg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, tokens[0])
	}
	if len(tokens) != want {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrMalformed, msg.Type, want-1, len(tokens)-1)
	}

	args, err := atois(tokens[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, msg.Type, err)
	}

	switch msg.Type {
	case MsgWelcome:
		msg.Rows, msg.Cols, msg.Players, msg.Player = args[0], args[1], args[2], args[3]
	case MsgMoleUp, MsgMoleDown:
		msg.Cell = args[0]
	case MsgWhack:
		msg.Cell, msg.Player = args[0], args[1]
	}
	return msg, nil
}

func decodeScores(tokens []string) ([]game.Slot, error) {
	scores := make([]game.Slot, len(tokens))
	for i, tok := range tokens {
		if tok == DisconnectedToken {
			scores[i] = game.Disconnected
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: SCORE slot %d: %q", ErrMalformed, i+1, tok)
		}
		scores[i] = game.Scored(n)
	}
	return scores, nil
}

func atois(tokens []string) ([]int, error) {
	out := make([]int, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
