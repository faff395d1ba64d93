package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/service"
)

var testTheme = config.Theme{ColorX: "red", ColorO: "dodgerblue", ColorDraw: "yellow"}

func newTestBoard() (*BoardUI, service.GameService) {
	game := service.NewGameService(discardLogger(), nil, "")
	return NewBoard(discardLogger(), game, testTheme), game
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestBoardUI_Keys(t *testing.T) {
	t.Run("Digit keys play cells", func(t *testing.T) {
		// Given: a fresh board
		board, game := newTestBoard()

		// When: pressing 1, 5, 2, 4, 3
		for _, key := range "15243" {
			assert.Nil(t, board.HandleKey(runeKey(key)))
		}

		// Then: X has the top row
		state := game.State()
		assert.False(t, state.Active)
		assert.Equal(t, []int{0, 1, 2}, state.WinCombo)
		assert.Contains(t, board.status.GetText(true), "Player X wins this round!")
	})

	t.Run("Cursor moves and plays with enter", func(t *testing.T) {
		board, game := newTestBoard()
		require.Equal(t, 4, board.Selected())

		board.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
		board.HandleKey(runeKey('h'))
		board.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

		assert.Equal(t, 0, board.Selected())
		assert.Equal(t, entity.PlayerX, game.State().Board[0])
	})

	t.Run("Cursor stops at the edge", func(t *testing.T) {
		board, _ := newTestBoard()

		for i := 0; i < 5; i++ {
			board.HandleKey(runeKey('l'))
		}

		assert.Equal(t, 5, board.Selected())
	})

	t.Run("Next round and new game", func(t *testing.T) {
		board, game := newTestBoard()
		for _, key := range "15243" {
			board.HandleKey(runeKey(key))
		}

		board.HandleKey(runeKey('r'))
		assert.Equal(t, 2, game.State().Round)
		assert.Equal(t, 1, game.State().Scores.X)
		assert.Contains(t, board.scores.GetText(true), "Round 2")

		board.HandleKey(runeKey('n'))
		assert.Equal(t, entity.NewGameState(), game.State())
	})

	t.Run("Unknown keys pass through", func(t *testing.T) {
		board, _ := newTestBoard()
		event := runeKey('q')

		assert.Same(t, event, board.HandleKey(event))
	})
}

func TestBoardUI_Draw(t *testing.T) {
	// Given: a simulation screen and a board with X in the center
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(gridWidth, gridHeight)

	board, _ := newTestBoard()
	board.Play(4)

	// When: drawing
	board.Box.SetRect(0, 0, gridWidth, gridHeight)
	board.Box.Draw(screen)
	screen.Show()

	// Then: the mark sits in the middle of the center cell and free cells show their key
	cells, width, _ := screen.GetContents()
	at := func(x, y int) rune {
		runes := cells[y*width+x].Runes
		if len(runes) == 0 {
			return ' '
		}
		return runes[0]
	}

	centerX := (cellWidth+1)*1 + cellWidth/2
	centerY := (cellHeight+1)*1 + cellHeight/2
	assert.Equal(t, 'X', at(centerX, centerY))
	assert.Equal(t, '1', at(cellWidth/2, cellHeight/2))
	assert.Equal(t, tview.BoxDrawingsLightVertical, at(cellWidth, 0))
}
