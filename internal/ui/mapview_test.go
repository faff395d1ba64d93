package ui

import (
	"context"
	"testing"

	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
)

func TestMapUI_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Commands update the panels", func(t *testing.T) {
		// Given: a map page over a fresh map
		commands, mapService, _ := newTestCommands(t)
		view := NewMapUI(ctx, discardLogger(), tview.NewApplication(), mapService, commands)

		// When: adding a marker and a circle
		view.Submit(ctx, "mode marker")
		view.Submit(ctx, "click 48.85 2.35")
		view.Submit(ctx, "mode circle")
		view.Submit(ctx, "click 48.85 2.35")

		// Then: the panels list both and the mode line follows
		assert.Contains(t, view.markers.GetText(true), "#1  48.8500, 2.3500")
		assert.Contains(t, view.drawings.GetText(true), "#1  Circle - Radius: 50.00 km")
		assert.Contains(t, view.info.GetText(true), "Draw Circle")
		assert.Contains(t, view.messages.GetText(true), "Drawing 1: Circle - Radius: 50.00 km")
	})

	t.Run("Errors are shown as messages", func(t *testing.T) {
		commands, mapService, _ := newTestCommands(t)
		view := NewMapUI(ctx, discardLogger(), tview.NewApplication(), mapService, commands)

		view.Submit(ctx, "rm marker 3")

		assert.Contains(t, view.messages.GetText(true), "marker not found")
	})

	t.Run("Hidden markers are not listed", func(t *testing.T) {
		commands, mapService, _ := newTestCommands(t)
		view := NewMapUI(ctx, discardLogger(), tview.NewApplication(), mapService, commands)

		view.Submit(ctx, "mode marker")
		view.Submit(ctx, "click 1 1")
		view.Submit(ctx, "toggle markers")

		assert.Equal(t, "none", view.markers.GetText(true))
	})

	t.Run("User location is shown apart from drawings", func(t *testing.T) {
		commands, mapService, _ := newTestCommands(t)
		view := NewMapUI(ctx, discardLogger(), tview.NewApplication(), mapService, commands)

		mapService.SetUserLocation(entity.LatLng{Lat: 52.52, Lng: 13.405})
		view.Refresh(ctx)

		assert.Contains(t, view.info.GetText(true), "You: 52.5200, 13.4050 (500 m)")
		require.Equal(t, "none", view.drawings.GetText(true))
	})

	t.Run("Search in flight is shown on the map panel", func(t *testing.T) {
		// Given: a search that has not returned yet
		commands, mapService, viewer := newTestCommands(t)
		viewer.searching = true
		view := NewMapUI(ctx, discardLogger(), tview.NewApplication(), mapService, commands)

		// Then: the map panel says so
		assert.Contains(t, view.info.GetText(true), "Searching...")
	})

	t.Run("Message history is bounded", func(t *testing.T) {
		commands, mapService, _ := newTestCommands(t)
		view := NewMapUI(ctx, discardLogger(), tview.NewApplication(), mapService, commands)

		for i := 0; i < maxMessages; i++ {
			view.Submit(ctx, "zoom in")
		}

		assert.Len(t, view.history, maxMessages)
	})
}
