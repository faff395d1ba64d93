package ui

import (
	"context"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/service"
)

// NewTicTacToeApp - the board page; q or Esc quits.
func NewTicTacToeApp(logger *slog.Logger, game gameService, theme config.Theme) *tview.Application {
	app := tview.NewApplication()
	board := NewBoard(logger, game, theme)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			app.Stop()
			return nil
		}
		return event
	})

	app.SetRoot(board.Layout(), true).SetFocus(board.Box)

	return app
}

// NewMapsiteApp - the map page with its command line; Esc quits.
func NewMapsiteApp(ctx context.Context, logger *slog.Logger, mapService service.MapService, viewer mapViewer) *tview.Application {
	app := tview.NewApplication()
	view := NewMapUI(ctx, logger, app, mapService, NewCommands(logger, mapService, viewer))

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			app.Stop()
			return nil
		}
		return event
	})

	app.SetRoot(view.Layout(), true).SetFocus(view.input)

	return app
}

// Run - runs the app until it quits or ctx is done.
func Run(ctx context.Context, app *tview.Application) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			app.Stop()
		case <-done:
		}
	}()

	return app.Run()
}
