package client

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"wam-game/internal/game"
)

// Display renders session events on the terminal
type Display struct {
	out io.Writer

	serverColor  *color.Color
	gameColor    *color.Color
	moleColor    *color.Color
	holeColor    *color.Color
	playerColor  *color.Color
	winColor     *color.Color
	loseColor    *color.Color
	warningColor *color.Color
	infoColor    *color.Color
}

func NewDisplay(out io.Writer) *Display {
	return &Display{
		out:          out,
		serverColor:  color.New(color.FgCyan, color.Bold),
		gameColor:    color.New(color.FgYellow, color.Bold),
		moleColor:    color.New(color.FgGreen, color.Bold),
		holeColor:    color.New(color.FgHiBlack),
		playerColor:  color.New(color.FgCyan),
		winColor:     color.New(color.FgGreen, color.Bold, color.BgBlack),
		loseColor:    color.New(color.FgRed, color.Bold, color.BgBlack),
		warningColor: color.New(color.FgYellow),
		infoColor:    color.New(color.FgWhite),
	}
}

func (d *Display) PrintBanner() {
	banner := `
╔═══════════════════════════════════════╗
║             WHACK-A-MOLE              ║
╚═══════════════════════════════════════╝
`
	d.gameColor.Fprintln(d.out, banner)
}

// PrintServerStatus displays server connection status
func (d *Display) PrintServerStatus(message string) {
	timestamp := time.Now().Format("15:04:05")
	d.serverColor.Fprintf(d.out, "[%s] [SERVER] %s\n", timestamp, message)
}

// PrintWelcome shows the handshake details
func (d *Display) PrintWelcome(rows, cols, players, me int) {
	d.gameColor.Fprintf(d.out, "[GAME] %dx%d board, %d player(s). You are player %d.\n", rows, cols, players, me)
	d.infoColor.Fprintln(d.out, "Type 'whack <cell>' or '<row> <col>' to whack, 'help' for commands.")
}

// PrintBoard draws the grid row by row. Cells are numbered row*cols+col.
func (d *Display) PrintBoard(rows, cols int, up []bool) {
	width := len(fmt.Sprint(rows*cols - 1))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			label := fmt.Sprintf(" %*d", width, i)
			if up[i] {
				d.moleColor.Fprintf(d.out, "%s[M]", label)
			} else {
				d.holeColor.Fprintf(d.out, "%s[ ]", label)
			}
		}
		fmt.Fprintln(d.out)
	}
}

// PrintScores lists every slot, marking the local player's own
func (d *Display) PrintScores(slots []game.Slot, me int) {
	parts := make([]string, len(slots))
	for i, slot := range slots {
		text := fmt.Sprintf("P%d: %s", i+1, slot)
		if !slot.IsConnected() {
			text = fmt.Sprintf("P%d: gone", i+1)
		}
		if i+1 == me {
			text = "*" + text
		}
		parts[i] = text
	}
	d.playerColor.Fprintf(d.out, "[SCORE] %s\n", strings.Join(parts, " | "))
}

// PrintResult announces the final outcome for this player
func (d *Display) PrintResult(result game.Result) {
	d.infoColor.Fprintln(d.out, "\n[GAME ENDED]")
	switch result {
	case game.ResultWon:
		d.winColor.Fprintln(d.out, "🎉 VICTORY! You whacked the most moles! 🎉")
	case game.ResultTied:
		d.warningColor.Fprintln(d.out, "🤝 TIE! You share the top score. 🤝")
	default:
		d.loseColor.Fprintln(d.out, "💀 DEFEAT! Better luck next time! 💀")
	}
}

func (d *Display) PrintHelp() {
	d.infoColor.Fprintln(d.out, `Commands:
  whack <cell>   whack a cell by number
  <row> <col>    whack a cell by position
  board          show the board
  help           show this help
  quit           leave the game`)
}

func (d *Display) PrintError(message string) {
	d.loseColor.Fprintf(d.out, "[ERROR] %s\n", message)
}

func (d *Display) PrintWarning(message string) {
	d.warningColor.Fprintf(d.out, "[WARNING] %s\n", message)
}

func (d *Display) PrintInfo(message string) {
	d.infoColor.Fprintf(d.out, "[INFO] %s\n", message)
}
