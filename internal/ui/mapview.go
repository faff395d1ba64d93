package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/service"
)

const maxMessages = 50

// MapUI shows the map state as text panels and takes commands from an input line.
type MapUI struct {
	app *tview.Application

	info     *tview.TextView
	markers  *tview.TextView
	drawings *tview.TextView
	messages *tview.TextView
	input    *tview.InputField

	logger     *slog.Logger
	mapService service.MapService
	commands   *Commands

	history []string
}

func NewMapUI(ctx context.Context, logger *slog.Logger, app *tview.Application, mapService service.MapService, commands *Commands) *MapUI {
	view := &MapUI{
		app:      app,
		info:     tview.NewTextView().SetDynamicColors(true),
		markers:  tview.NewTextView().SetDynamicColors(true),
		drawings: tview.NewTextView().SetDynamicColors(true),
		messages: tview.NewTextView().SetDynamicColors(true),
		input:    tview.NewInputField().SetLabel("> "),

		logger:     logger.With("component", "map_ui"),
		mapService: mapService,
		commands:   commands,
	}

	view.info.SetBorder(true).SetTitle(" Map ").SetTitleAlign(tview.AlignLeft)
	view.markers.SetBorder(true).SetTitle(" Markers ").SetTitleAlign(tview.AlignLeft)
	view.drawings.SetBorder(true).SetTitle(" Drawings ").SetTitleAlign(tview.AlignLeft)
	view.messages.SetBorder(true).SetTitle(" Messages ").SetTitleAlign(tview.AlignLeft)

	view.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}

		line := view.input.GetText()
		view.input.SetText("")
		view.Submit(ctx, line)
	})

	view.Refresh(ctx)
	view.say("Type help for the list of commands")

	return view
}

func (that *MapUI) Layout() *tview.Flex {
	collections := tview.NewFlex().
		AddItem(that.markers, 0, 1, false).
		AddItem(that.drawings, 0, 1, false)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(that.info, 8, 0, false).
		AddItem(collections, 0, 2, false).
		AddItem(that.messages, 0, 1, false).
		AddItem(that.input, 1, 0, true)
}

// Submit - runs a command line; network commands finish on a goroutine and report back through the event loop.
func (that *MapUI) Submit(ctx context.Context, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	that.say("[gray]> " + tview.Escape(line) + "[-]")

	if !that.commands.IsAsync(line) {
		that.show(that.commands.Execute(ctx, line))
		that.Refresh(ctx)
		return
	}

	go func() {
		message, err := that.commands.Execute(ctx, line)
		that.app.QueueUpdateDraw(func() {
			that.show(message, err)
			that.Refresh(ctx)
		})
	}()
}

// Refresh - redraws every panel from the map state.
func (that *MapUI) Refresh(ctx context.Context) {
	that.info.SetText(that.describeMap())
	that.markers.SetText(that.describeMarkers(ctx))
	that.drawings.SetText(that.describeDrawings(ctx))
}

func (that *MapUI) describeMap() string {
	mode := that.mapService.Mode()
	layer := that.mapService.Layer()
	viewport := that.mapService.Viewport()

	var sb strings.Builder
	fmt.Fprintf(&sb, "[::b]Mode:[-:-:-] %s - %s\n", mode.Name, mode.Description)
	fmt.Fprintf(&sb, "[::b]Layer:[-:-:-] %s  [gray]%s[-]\n", layer.Name, tview.Escape(layer.URL))
	fmt.Fprintf(&sb, "[::b]Center:[-:-:-] %s  [::b]Zoom:[-:-:-] %d\n", viewport.Center, viewport.Zoom)

	if pending := that.mapService.Pending(); len(pending) > 0 {
		fmt.Fprintf(&sb, "[::b]Pending points:[-:-:-] %d\n", len(pending))
	}

	if location := that.mapService.UserLocation(); location != nil {
		fmt.Fprintf(&sb, "[blue::b]You:[-:-:-] %s (%.0f m)\n", location.Center, location.Radius)
	}

	if that.commands.IsSearching() {
		sb.WriteString("[yellow]Searching...[-]\n")
	}

	fmt.Fprintf(&sb, "[gray]%s[-]", tview.Escape(layer.Attribution))

	return sb.String()
}

func (that *MapUI) describeMarkers(ctx context.Context) string {
	markers, err := that.mapService.Markers(ctx)
	if err != nil {
		that.logger.Error("failed to list markers", "error", err)
		return "[red]unavailable[-]"
	}

	if len(markers) == 0 {
		return "[gray]none[-]"
	}

	lines := make([]string, 0, len(markers))
	for _, marker := range markers {
		lines = append(lines, fmt.Sprintf("#%d  %s", marker.ID, marker.Position()))
	}

	return strings.Join(lines, "\n")
}

func (that *MapUI) describeDrawings(ctx context.Context) string {
	drawings, err := that.mapService.Drawings(ctx)
	if err != nil {
		that.logger.Error("failed to list drawings", "error", err)
		return "[red]unavailable[-]"
	}

	if len(drawings) == 0 {
		return "[gray]none[-]"
	}

	lines := make([]string, 0, len(drawings))
	for _, drawing := range drawings {
		lines = append(lines, fmt.Sprintf("#%d  %s", drawing.ID, drawing.Summary()))
	}

	return strings.Join(lines, "\n")
}

func (that *MapUI) show(message string, err error) {
	if err != nil {
		that.say("[red]" + tview.Escape(err.Error()) + "[-]")
		return
	}

	if message != "" {
		that.say(tview.Escape(message))
	}
}

func (that *MapUI) say(line string) {
	that.history = append(that.history, line)
	if len(that.history) > maxMessages {
		that.history = that.history[len(that.history)-maxMessages:]
	}

	that.messages.SetText(strings.Join(that.history, "\n"))
	that.messages.ScrollToEnd()
}
