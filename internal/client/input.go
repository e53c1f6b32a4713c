package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrBadCommand = errors.New("bad command")

type CommandKind int

const (
	CmdWhack CommandKind = iota
	CmdBoard
	CmdHelp
	CmdQuit
)

// Command is one parsed line of user input
type Command struct {
	Kind CommandKind
	Cell int
}

// InputHandler turns user input lines into commands for a rows x cols board
type InputHandler struct {
	scanner *bufio.Scanner
}

func NewInputHandler(in io.Reader) *InputHandler {
	return &InputHandler{scanner: bufio.NewScanner(in)}
}

// Lines streams trimmed, non-empty input lines until the input ends
func (ih *InputHandler) Lines() <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for ih.scanner.Scan() {
			if line := strings.TrimSpace(ih.scanner.Text()); line != "" {
				lines <- line
			}
		}
	}()
	return lines
}

// ParseCommand accepts "whack <cell>", "<row> <col>", "board", "help" and "quit"
func ParseCommand(line string, rows, cols int) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrBadCommand)
	}

	switch fields[0] {
	case "quit", "exit", "q":
		return Command{Kind: CmdQuit}, nil
	case "help", "?":
		return Command{Kind: CmdHelp}, nil
	case "board":
		return Command{Kind: CmdBoard}, nil
	case "whack", "w":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: usage: whack <cell>", ErrBadCommand)
		}
		cell, err := strconv.Atoi(fields[1])
		if err != nil || cell < 0 || cell >= rows*cols {
			return Command{}, fmt.Errorf("%w: cell must be between 0 and %d", ErrBadCommand, rows*cols-1)
		}
		return Command{Kind: CmdWhack, Cell: cell}, nil
	}

	if len(fields) == 2 {
		row, rerr := strconv.Atoi(fields[0])
		col, cerr := strconv.Atoi(fields[1])
		if rerr == nil && cerr == nil {
			if row < 0 || row >= rows || col < 0 || col >= cols {
				return Command{}, fmt.Errorf("%w: position must be within %dx%d", ErrBadCommand, rows, cols)
			}
			return Command{Kind: CmdWhack, Cell: row*cols + col}, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q (type 'help')", ErrBadCommand, line)
}
