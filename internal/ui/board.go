// Package ui holds the terminal pages for the tic-tac-toe board and the map viewer.
package ui

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
)

const (
	cellWidth  = 7
	cellHeight = 3
	boardSide  = 3

	gridWidth  = boardSide*cellWidth + boardSide - 1
	gridHeight = boardSide*cellHeight + boardSide - 1
)

type gameService interface {
	State() *entity.GameState
	ApplyMove(cell int) (entity.Outcome, error)
	NextRound() error
	NewGame() error
}

// BoardUI is the 3x3 grid with a cursor, a status line and a scoreboard.
type BoardUI struct {
	Box    *tview.Box
	status *tview.TextView
	scores *tview.TextView

	logger *slog.Logger
	game   gameService

	selected int

	colorX    tcell.Color
	colorO    tcell.Color
	colorDraw tcell.Color
}

func NewBoard(logger *slog.Logger, game gameService, theme config.Theme) *BoardUI {
	board := &BoardUI{
		Box:      tview.NewBox(),
		status:   tview.NewTextView(),
		scores:   tview.NewTextView(),
		logger:   logger.With("component", "board_ui"),
		game:     game,
		selected: 4,

		colorX:    tcell.GetColor(theme.ColorX),
		colorO:    tcell.GetColor(theme.ColorO),
		colorDraw: tcell.GetColor(theme.ColorDraw),
	}

	board.status.SetDynamicColors(true)
	board.status.SetTextAlign(tview.AlignCenter)
	board.scores.SetDynamicColors(true)
	board.scores.SetTextAlign(tview.AlignCenter)

	board.Box.SetDrawFunc(board.draw)
	board.Box.SetInputCapture(board.HandleKey)
	board.refresh()

	return board
}

// Layout - centers the grid above the status line and the scoreboard.
func (that *BoardUI) Layout() *tview.Flex {
	grid := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(that.Box, gridWidth, 0, true).
		AddItem(nil, 0, 1, false)

	help := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("arrows/hjkl move  1-9 or enter play  r next round  n new game  q quit")
	help.SetTextColor(tcell.ColorGray)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(grid, gridHeight, 0, true).
		AddItem(nil, 1, 0, false).
		AddItem(that.status, 1, 0, false).
		AddItem(that.scores, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(help, 1, 0, false).
		AddItem(nil, 0, 1, false)
	layout.SetBorder(true).SetTitle(" tic-tac-toe ")

	return layout
}

func (that *BoardUI) Selected() int {
	return that.selected
}

// MoveSelection - moves the cursor, stopping at the edges.
func (that *BoardUI) MoveSelection(h, v int) {
	row, col := that.selected/boardSide+v, that.selected%boardSide+h
	if row < 0 || row >= boardSide || col < 0 || col >= boardSide {
		return
	}

	that.selected = row*boardSide + col
}

// Play - applies a move on the cell; ignored moves leave the board as it was.
func (that *BoardUI) Play(cell int) {
	if _, err := that.game.ApplyMove(cell); err != nil {
		that.logger.Error("move failed", "cell", cell, "error", err)
	}

	that.selected = cell
	that.refresh()
}

func (that *BoardUI) NextRound() {
	if err := that.game.NextRound(); err != nil {
		that.logger.Error("next round failed", "error", err)
	}

	that.refresh()
}

func (that *BoardUI) NewGame() {
	if err := that.game.NewGame(); err != nil {
		that.logger.Error("new game failed", "error", err)
	}

	that.refresh()
}

// HandleKey - consumes board keys and passes everything else on.
func (that *BoardUI) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		that.MoveSelection(0, -1)
	case tcell.KeyDown:
		that.MoveSelection(0, 1)
	case tcell.KeyLeft:
		that.MoveSelection(-1, 0)
	case tcell.KeyRight:
		that.MoveSelection(1, 0)
	case tcell.KeyEnter:
		that.Play(that.selected)
	case tcell.KeyRune:
		return that.handleRune(event)
	default:
		return event
	}

	return nil
}

func (that *BoardUI) handleRune(event *tcell.EventKey) *tcell.EventKey {
	key := event.Rune()

	switch {
	case key >= '1' && key <= '9':
		that.Play(int(key - '1'))
	case key == ' ':
		that.Play(that.selected)
	case key == 'h':
		that.MoveSelection(-1, 0)
	case key == 'j':
		that.MoveSelection(0, 1)
	case key == 'k':
		that.MoveSelection(0, -1)
	case key == 'l':
		that.MoveSelection(1, 0)
	case key == 'r':
		that.NextRound()
	case key == 'n':
		that.NewGame()
	default:
		return event
	}

	return nil
}

func (that *BoardUI) refresh() {
	state := that.game.State()

	message, accent := state.StatusMessage()
	that.status.SetText(fmt.Sprintf("[%s::b]%s[-:-:-]", that.accentColor(accent), tview.Escape(message)))

	that.scores.SetText(fmt.Sprintf("Round %d   [%s]X[-] %d   [%s]O[-] %d   Draws %d",
		state.Round,
		colorTag(that.colorX), state.Scores.X,
		colorTag(that.colorO), state.Scores.O,
		state.Scores.Draws,
	))
}

func (that *BoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	state := that.game.State()
	lineStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	for row := 0; row < boardSide; row++ {
		for col := 0; col < boardSide; col++ {
			cell := row*boardSide + col
			left := x + col*(cellWidth+1)
			top := y + row*(cellHeight+1)

			that.drawCell(screen, state, cell, left, top)

			if col < boardSide-1 {
				for dy := 0; dy < cellHeight; dy++ {
					screen.SetContent(left+cellWidth, top+dy, tview.BoxDrawingsLightVertical, nil, lineStyle)
				}
			}

			if row < boardSide-1 {
				for dx := 0; dx < cellWidth; dx++ {
					screen.SetContent(left+dx, top+cellHeight, tview.BoxDrawingsLightHorizontal, nil, lineStyle)
				}
				if col < boardSide-1 {
					screen.SetContent(left+cellWidth, top+cellHeight, tview.BoxDrawingsLightVerticalAndHorizontal, nil, lineStyle)
				}
			}
		}
	}

	return x, y, width, height
}

func (that *BoardUI) drawCell(screen tcell.Screen, state *entity.GameState, cell, left, top int) {
	style := tcell.StyleDefault
	mark := state.Board[cell]

	var glyph rune
	switch mark {
	case entity.PlayerX:
		glyph = 'X'
		style = style.Foreground(that.colorX).Bold(true)
	case entity.PlayerO:
		glyph = 'O'
		style = style.Foreground(that.colorO).Bold(true)
	default:
		glyph = rune('1' + cell)
		style = style.Foreground(tcell.ColorDimGray)
	}

	if state.IsDisabled(cell) && mark == entity.EmptyCell {
		glyph = ' '
	}

	if state.IsHighlighted(cell) {
		style = style.Reverse(true)
	}

	if cell == that.selected && !state.IsEnded() {
		style = style.Background(tcell.ColorDarkSlateGray)
	}

	for dy := 0; dy < cellHeight; dy++ {
		for dx := 0; dx < cellWidth; dx++ {
			screen.SetContent(left+dx, top+dy, ' ', nil, style)
		}
	}

	screen.SetContent(left+cellWidth/2, top+cellHeight/2, glyph, nil, style)
}

func (that *BoardUI) accentColor(accent string) string {
	switch accent {
	case entity.AccentX:
		return colorTag(that.colorX)
	case entity.AccentO:
		return colorTag(that.colorO)
	case entity.AccentDraw:
		return colorTag(that.colorDraw)
	default:
		return "white"
	}
}

func colorTag(color tcell.Color) string {
	hex := color.Hex()
	if hex < 0 {
		return "white"
	}

	return fmt.Sprintf("#%06x", hex)
}
