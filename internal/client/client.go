// Package client is the console player for a whack-a-mole session
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"wam-game/internal/game"
	"wam-game/internal/network"
	"wam-game/pkg/logger"
)

var (
	ErrNoWelcome      = errors.New("server did not send WELCOME")
	ErrConnectionLost = errors.New("lost connection to server")
	ErrServerError    = errors.New("server reported an error")
	ErrProtocol       = errors.New("improper protocol")
	// ErrQuit is returned when the user leaves before the session ends
	ErrQuit = errors.New("user quit")
)

// Limits on what a WELCOME may announce
const (
	maxCells   = 1 << 16
	maxPlayers = 1 << 10
)

// Client represents the game client
type Client struct {
	serverAddr string
	conn       net.Conn
	reader     *bufio.Scanner

	mu     sync.Mutex
	writer *bufio.Writer

	display *Display
	input   *InputHandler
	logger  *logger.Logger

	rows    int
	cols    int
	players int
	index   int
	board   []bool
	scores  []game.Slot
}

// NewClient creates a client that reads commands from in and renders to out
func NewClient(serverAddr string, in io.Reader, out io.Writer) *Client {
	return &Client{
		serverAddr: serverAddr,
		display:    NewDisplay(out),
		input:      NewInputHandler(in),
		logger:     logger.Client,
	}
}

func (c *Client) Index() int   { return c.index }
func (c *Client) Rows() int    { return c.rows }
func (c *Client) Cols() int    { return c.cols }
func (c *Client) Players() int { return c.players }

// Start connects, plays until the session ends and shows the result
func (c *Client) Start(ctx context.Context) error {
	c.display.PrintBanner()
	c.logger.Info("Client starting...")

	if err := c.Connect(); err != nil {
		c.display.PrintError(err.Error())
		return err
	}
	defer c.Close()

	result, err := c.Run(ctx)
	if err != nil {
		if !errors.Is(err, ErrQuit) {
			c.display.PrintError(err.Error())
		}
		return err
	}
	c.display.PrintResult(result)
	return nil
}

// Connect dials the server and completes the WELCOME handshake
func (c *Client) Connect() error {
	c.display.PrintInfo("Connecting to server...")

	conn, err := net.Dial("tcp", c.serverAddr)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn
	c.writer = bufio.NewWriter(conn)
	c.reader = bufio.NewScanner(conn)
	c.display.PrintServerStatus("Connected to server")
	c.logger.Info("Connected to server at %s", c.serverAddr)

	if !c.reader.Scan() {
		c.Close()
		return fmt.Errorf("%w: %v", ErrNoWelcome, ErrConnectionLost)
	}
	msg, err := network.Decode(c.reader.Text())
	if err != nil || msg.Type != network.MsgWelcome {
		c.sendImproper()
		c.Close()
		return fmt.Errorf("%w: got %q", ErrNoWelcome, c.reader.Text())
	}

	if err := checkWelcome(msg); err != nil {
		c.logger.Error("Improper WELCOME from server: %v", err)
		c.sendImproper()
		c.Close()
		return fmt.Errorf("%w: %w", ErrNoWelcome, err)
	}

	c.rows, c.cols, c.players, c.index = msg.Rows, msg.Cols, msg.Players, msg.Player
	c.board = make([]bool, c.rows*c.cols)
	c.scores = make([]game.Slot, c.players)
	for i := range c.scores {
		c.scores[i] = game.Scored(0)
	}
	c.logger.Info("Joined as player %d of %d on a %dx%d board", c.index, c.players, c.rows, c.cols)
	c.display.PrintWelcome(c.rows, c.cols, c.players, c.index)
	c.display.PrintBoard(c.rows, c.cols, c.board)
	return nil
}

// checkWelcome rejects board and player counts the client cannot represent
func checkWelcome(msg *network.Message) error {
	switch {
	case msg.Rows < 1 || msg.Cols < 1 || msg.Rows > maxCells || msg.Cols > maxCells || msg.Rows*msg.Cols > maxCells:
		return fmt.Errorf("%w: %dx%d board", ErrProtocol, msg.Rows, msg.Cols)
	case msg.Players < 1 || msg.Players > maxPlayers:
		return fmt.Errorf("%w: %d players", ErrProtocol, msg.Players)
	case msg.Player < 1 || msg.Player > msg.Players:
		return fmt.Errorf("%w: player %d of %d", ErrProtocol, msg.Player, msg.Players)
	}
	return nil
}

// Run handles server messages and user commands until a result arrives,
// the connection ends, the user quits or ctx is done
func (c *Client) Run(ctx context.Context) (game.Result, error) {
	done := make(chan struct{})
	defer close(done)

	incoming := make(chan string)
	go func() {
		defer close(incoming)
		for c.reader.Scan() {
			select {
			case incoming <- c.reader.Text():
			case <-done:
				return
			}
		}
	}()

	commands := c.input.Lines()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case line, ok := <-incoming:
			if !ok {
				c.logger.Error("Lost connection to server")
				return "", ErrConnectionLost
			}
			c.logger.Debug("Received: %s", line)
			result, finished, err := c.handleServerLine(line)
			if err != nil {
				return "", err
			}
			if finished {
				c.logger.Info("Session over: %s", result)
				return result, nil
			}

		case line, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			if err := c.handleCommand(line); err != nil {
				return "", err
			}
		}
	}
}

func (c *Client) handleServerLine(line string) (game.Result, bool, error) {
	msg, err := network.Decode(line)
	if err != nil {
		return "", false, c.improper(err.Error())
	}

	switch msg.Type {
	case network.MsgMoleUp, network.MsgMoleDown:
		if msg.Cell < 0 || msg.Cell >= len(c.board) {
			return "", false, c.improper(fmt.Sprintf("cell %d outside the board", msg.Cell))
		}
		c.board[msg.Cell] = msg.Type == network.MsgMoleUp
		c.display.PrintBoard(c.rows, c.cols, c.board)

	case network.MsgScore:
		if len(msg.Scores) != c.players {
			return "", false, c.improper(fmt.Sprintf("SCORE has %d slots, want %d", len(msg.Scores), c.players))
		}
		c.scores = msg.Scores
		c.display.PrintScores(c.scores, c.index)

	case network.MsgGameWon, network.MsgGameLost, network.MsgGameTied:
		result, _ := msg.Result()
		return result, true, nil

	case network.MsgError:
		c.logger.Warn("Server error: %s", msg.Text)
		return "", false, fmt.Errorf("%w: %s", ErrServerError, msg.Text)

	default:
		return "", false, c.improper(fmt.Sprintf("unexpected %s", msg.Type))
	}
	return "", false, nil
}

// improper tells the server its message was not understood
func (c *Client) improper(reason string) error {
	c.logger.Error("Improper message from server: %s", reason)
	c.sendImproper()
	return fmt.Errorf("%w: %s", ErrProtocol, reason)
}

func (c *Client) sendImproper() {
	if err := c.sendMessage(network.NewError("improper protocol")); err != nil {
		c.logger.Debug("Could not send ERROR: %v", err)
	}
}

func (c *Client) handleCommand(line string) error {
	cmd, err := ParseCommand(line, c.rows, c.cols)
	if err != nil {
		c.display.PrintWarning(err.Error())
		return nil
	}

	switch cmd.Kind {
	case CmdQuit:
		c.display.PrintInfo("Leaving the game")
		return ErrQuit
	case CmdHelp:
		c.display.PrintHelp()
	case CmdBoard:
		c.display.PrintBoard(c.rows, c.cols, c.board)
		c.display.PrintScores(c.scores, c.index)
	case CmdWhack:
		if err := c.sendMessage(network.NewWhack(cmd.Cell, c.index)); err != nil {
			return fmt.Errorf("%w: %v", ErrConnectionLost, err)
		}
	}
	return nil
}

func (c *Client) sendMessage(msg *network.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.writer.WriteString(msg.Encode() + "\n"); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return c.writer.Flush()
}

// Close closes the server connection
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	c.logger.Info("Disconnecting from server")
	return c.conn.Close()
}
