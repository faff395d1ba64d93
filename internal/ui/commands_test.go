package ui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/repository"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/service"
)

type mockViewer struct {
	mock.Mock

	searching bool
}

func (that *mockViewer) Search(ctx context.Context, query string) (*entity.Place, error) {
	args := that.Called(ctx, query)
	place, _ := args.Get(0).(*entity.Place)
	return place, args.Error(1)
}

func (that *mockViewer) Locate(ctx context.Context) (entity.LatLng, error) {
	args := that.Called(ctx)
	return args.Get(0).(entity.LatLng), args.Error(1)
}

func (that *mockViewer) IsSearching() bool {
	return that.searching
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testMapConfig() config.Map {
	return config.Map{
		CenterLat:    40.7128,
		CenterLng:    -74.0060,
		Zoom:         10,
		MinZoom:      1,
		MaxZoom:      19,
		BaseLayer:    entity.LayerStreet,
		ShowMarkers:  true,
		ShowDrawings: true,
		CircleRadius: entity.DefaultCircleRadius,
	}
}

func newTestCommands(t *testing.T) (*Commands, service.MapService, *mockViewer) {
	t.Helper()

	mapService, err := service.NewMapService(discardLogger(), testMapConfig(), repository.NewMarkerRepository(), repository.NewDrawingRepository())
	require.NoError(t, err)

	viewer := &mockViewer{}

	return NewCommands(discardLogger(), mapService, viewer), mapService, viewer
}

func run(t *testing.T, commands *Commands, lines ...string) string {
	t.Helper()

	var message string
	for _, line := range lines {
		var err error
		message, err = commands.Execute(context.Background(), line)
		require.NoError(t, err, line)
	}

	return message
}

func TestCommands_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("Marker mode and click", func(t *testing.T) {
		// Given: a fresh map
		commands, mapService, _ := newTestCommands(t)

		// When: switching to marker mode and clicking
		modeMessage := run(t, commands, "mode marker")
		clickMessage := run(t, commands, "click 40.7 -74")

		// Then: a marker exists and both messages describe it
		assert.Equal(t, "Add Marker: Click to place markers", modeMessage)
		assert.Equal(t, "Marker 1 at 40.7000, -74.0000", clickMessage)

		markers, err := mapService.Markers(ctx)
		require.NoError(t, err)
		assert.Len(t, markers, 1)
	})

	t.Run("Polygon takes three clicks", func(t *testing.T) {
		commands, _, _ := newTestCommands(t)

		assert.Equal(t, "Point 1 at 1.0000, 1.0000", run(t, commands, "mode polygon", "click 1 1"))
		assert.Equal(t, "Point 2 at 2.0000, 2.0000", run(t, commands, "click 2 2"))
		assert.Equal(t, "Drawing 1: Polygon - Points: 3", run(t, commands, "click 3 1"))
	})

	t.Run("Remove", func(t *testing.T) {
		commands, _, _ := newTestCommands(t)
		run(t, commands, "mode circle", "click 0 0")

		assert.Equal(t, "Drawing 1 removed", run(t, commands, "rm drawing 1"))

		_, err := commands.Execute(ctx, "rm drawing 1")
		require.ErrorIs(t, err, apperror.ErrDrawingNotFound)

		_, err = commands.Execute(ctx, "rm marker 7")
		require.ErrorIs(t, err, apperror.ErrMarkerNotFound)
	})

	t.Run("Toggle, zoom, pan and layer", func(t *testing.T) {
		commands, mapService, _ := newTestCommands(t)

		assert.Equal(t, "Markers hidden", run(t, commands, "toggle markers"))
		assert.Equal(t, "Drawings hidden", run(t, commands, "toggle drawings"))
		assert.Equal(t, "Markers shown", run(t, commands, "toggle markers"))
		assert.Equal(t, "Zoom 11", run(t, commands, "zoom in"))
		assert.Equal(t, "Zoom 10", run(t, commands, "ZOOM out"))
		assert.Equal(t, "Base layer: Satellite", run(t, commands, "layer satellite"))

		run(t, commands, "pan n")
		assert.Greater(t, mapService.Viewport().Center.Lat, 40.7128)
	})

	t.Run("Search", func(t *testing.T) {
		commands, _, viewer := newTestCommands(t)
		place := &entity.Place{LatLng: entity.LatLng{Lat: 40.7128, Lng: -74.006}, DisplayName: "New York"}
		viewer.On("Search", mock.Anything, "new york").Return(place, nil).Once()

		message := run(t, commands, "search new   york")

		assert.Equal(t, "New York (40.7128, -74.0060)", message)
		assert.True(t, commands.IsAsync("search new york"))
		assert.False(t, commands.IsAsync("zoom in"))
	})

	t.Run("Locate failure", func(t *testing.T) {
		commands, _, viewer := newTestCommands(t)
		viewer.On("Locate", mock.Anything).Return(entity.LatLng{}, apperror.ErrGeolocationUnavailable).Once()

		_, err := commands.Execute(ctx, "locate")

		require.ErrorIs(t, err, apperror.ErrGeolocationUnavailable)
	})

	t.Run("Bad input", func(t *testing.T) {
		commands, _, _ := newTestCommands(t)

		_, err := commands.Execute(ctx, "teleport home")
		require.ErrorIs(t, err, apperror.ErrUnknownCommand)

		_, err = commands.Execute(ctx, "click north south")
		require.ErrorIs(t, err, ErrUsage)
		assert.Contains(t, err.Error(), "click <lat> <lng>")

		_, err = commands.Execute(ctx, "mode erase")
		require.ErrorIs(t, err, apperror.ErrUnknownMode)

		message, err := commands.Execute(ctx, "   ")
		require.NoError(t, err)
		assert.Empty(t, message)
	})

	t.Run("Help lists every command", func(t *testing.T) {
		commands, _, _ := newTestCommands(t)

		help := run(t, commands, "help")

		for _, name := range []string{"mode", "layer", "click", "rm", "toggle", "search", "locate", "zoom", "pan"} {
			assert.Contains(t, help, name)
		}
	})
}
