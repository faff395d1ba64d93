package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
)

const (
	rowSeparator = "---+---+---"
	boardSide    = 3
)

// Printer writes the board, status line and scoreboard in the terminal's color profile.
type Printer struct {
	out *termenv.Output

	colorX    termenv.Color
	colorO    termenv.Color
	colorDraw termenv.Color
}

func NewPrinter(w io.Writer, theme config.Theme, opts ...termenv.OutputOption) *Printer {
	out := termenv.NewOutput(w, opts...)

	return &Printer{
		out:       out,
		colorX:    themeColor(out, theme.ColorX),
		colorO:    themeColor(out, theme.ColorO),
		colorDraw: themeColor(out, theme.ColorDraw),
	}
}

// Board - renders the grid; free cells show their 1-based key, the winning line is reversed.
func (that *Printer) Board(state *entity.GameState) string {
	var sb strings.Builder

	for row := 0; row < boardSide; row++ {
		if row > 0 {
			sb.WriteString(rowSeparator + "\n")
		}

		cells := make([]string, 0, boardSide)
		for col := 0; col < boardSide; col++ {
			cells = append(cells, " "+that.cell(state, row*boardSide+col)+" ")
		}

		sb.WriteString(strings.Join(cells, "|") + "\n")
	}

	return sb.String()
}

// Status - renders the status line in the accent of the round result.
func (that *Printer) Status(state *entity.GameState) string {
	message, accent := state.StatusMessage()

	style := that.out.String(message)
	switch accent {
	case entity.AccentX:
		style = style.Foreground(that.colorX).Bold()
	case entity.AccentO:
		style = style.Foreground(that.colorO).Bold()
	case entity.AccentDraw:
		style = style.Foreground(that.colorDraw).Bold()
	}

	return style.String()
}

func (that *Printer) Scoreboard(state *entity.GameState) string {
	return fmt.Sprintf("Round %d | %s %d  %s %d  Draws %d",
		state.Round,
		that.out.String(entity.PlayerX).Foreground(that.colorX),
		state.Scores.X,
		that.out.String(entity.PlayerO).Foreground(that.colorO),
		state.Scores.O,
		state.Scores.Draws,
	)
}

// Print - writes board, status and scoreboard followed by a blank line.
func (that *Printer) Print(state *entity.GameState) error {
	_, err := fmt.Fprintf(that.out, "%s%s\n%s\n\n", that.Board(state), that.Status(state), that.Scoreboard(state))
	if err != nil {
		return fmt.Errorf("failed to print board: %w", err)
	}

	return nil
}

func (that *Printer) cell(state *entity.GameState, idx int) string {
	mark := state.Board[idx]

	if mark == entity.EmptyCell {
		return that.out.String(strconv.Itoa(idx + 1)).Faint().String()
	}

	style := that.out.String(mark).Bold()
	if mark == entity.PlayerX {
		style = style.Foreground(that.colorX)
	} else {
		style = style.Foreground(that.colorO)
	}

	if state.IsHighlighted(idx) {
		style = style.Reverse()
	}

	return style.String()
}

// themeColor - turns a tcell color name (as used by the board page) into a termenv color.
func themeColor(out *termenv.Output, name string) termenv.Color {
	hex := tcell.GetColor(name).Hex()
	if hex < 0 {
		return out.Color("")
	}

	return out.Color(fmt.Sprintf("#%06x", hex))
}
