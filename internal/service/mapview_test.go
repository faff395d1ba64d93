package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/repository"
)

func defaultMapConfig() config.Map {
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

func newTestMap(t *testing.T) MapService {
	t.Helper()

	svc, err := NewMapService(discardLogger(), defaultMapConfig(), repository.NewMarkerRepository(), repository.NewDrawingRepository())
	require.NoError(t, err)

	return svc
}

func TestNewMapService(t *testing.T) {
	t.Run("Starts in view mode over the configured center", func(t *testing.T) {
		svc := newTestMap(t)

		assert.Equal(t, entity.ModeView, svc.Mode().ID)
		assert.Equal(t, entity.LayerStreet, svc.Layer().ID)
		assert.Equal(t, Viewport{Center: entity.LatLng{Lat: 40.7128, Lng: -74.0060}, Zoom: 10}, svc.Viewport())
	})

	t.Run("Unknown base layer", func(t *testing.T) {
		conf := defaultMapConfig()
		conf.BaseLayer = "watercolor"

		_, err := NewMapService(discardLogger(), conf, repository.NewMarkerRepository(), repository.NewDrawingRepository())

		require.ErrorIs(t, err, apperror.ErrUnknownLayer)
	})

	t.Run("Missing circle radius falls back to the default", func(t *testing.T) {
		// Given: a config without a circle radius
		conf := defaultMapConfig()
		conf.CircleRadius = 0

		svc, err := NewMapService(discardLogger(), conf, repository.NewMarkerRepository(), repository.NewDrawingRepository())
		require.NoError(t, err)
		require.NoError(t, svc.SetMode(entity.ModeCircle))

		// When: clicking in circle mode
		result, err := svc.Click(context.Background(), entity.LatLng{Lat: 1, Lng: 2})

		// Then: the circle gets the default radius
		require.NoError(t, err)
		require.NotNil(t, result.Drawing)
		assert.InDelta(t, entity.DefaultCircleRadius, result.Drawing.Radius, 1e-9)
	})
}

func TestMapService_Click(t *testing.T) {
	ctx := context.Background()
	point := entity.LatLng{Lat: 40.7, Lng: -74.0}

	t.Run("View mode does nothing", func(t *testing.T) {
		svc := newTestMap(t)

		result, err := svc.Click(ctx, point)
		require.NoError(t, err)

		assert.Equal(t, ClickResult{}, result)
		markers, err := svc.Markers(ctx)
		require.NoError(t, err)
		assert.Empty(t, markers)
	})

	t.Run("Marker mode adds a marker", func(t *testing.T) {
		// Given: marker mode
		svc := newTestMap(t)
		require.NoError(t, svc.SetMode(entity.ModeMarker))

		// When: clicking twice
		first, err := svc.Click(ctx, point)
		require.NoError(t, err)
		second, err := svc.Click(ctx, entity.LatLng{Lat: 41, Lng: -73})
		require.NoError(t, err)

		// Then: two markers with increasing ids exist
		require.NotNil(t, first.Marker)
		require.NotNil(t, second.Marker)
		assert.Less(t, first.Marker.ID, second.Marker.ID)

		markers, err := svc.Markers(ctx)
		require.NoError(t, err)
		assert.Len(t, markers, 2)
	})

	t.Run("Circle mode adds a fixed radius circle", func(t *testing.T) {
		svc := newTestMap(t)
		require.NoError(t, svc.SetMode(entity.ModeCircle))

		result, err := svc.Click(ctx, point)
		require.NoError(t, err)

		require.NotNil(t, result.Drawing)
		assert.Equal(t, entity.DrawingCircle, result.Drawing.Type)
		assert.Equal(t, point, result.Drawing.Center)
		assert.Equal(t, "Circle - Radius: 50.00 km", result.Drawing.Summary())
	})

	t.Run("Polygon completes on the third point", func(t *testing.T) {
		// Given: polygon mode
		svc := newTestMap(t)
		require.NoError(t, svc.SetMode(entity.ModePolygon))

		// When: clicking three points
		first, err := svc.Click(ctx, entity.LatLng{Lat: 1, Lng: 1})
		require.NoError(t, err)
		second, err := svc.Click(ctx, entity.LatLng{Lat: 2, Lng: 2})
		require.NoError(t, err)
		third, err := svc.Click(ctx, entity.LatLng{Lat: 3, Lng: 1})
		require.NoError(t, err)

		// Then: the first two are pending and the third closes the polygon
		assert.Equal(t, 1, first.Pending)
		assert.Equal(t, 2, second.Pending)
		require.NotNil(t, third.Drawing)
		assert.Equal(t, "Polygon - Points: 3", third.Drawing.Summary())
		assert.Empty(t, svc.Pending())
	})

	t.Run("Polyline completes on the second point", func(t *testing.T) {
		svc := newTestMap(t)
		require.NoError(t, svc.SetMode(entity.ModePolyline))

		first, err := svc.Click(ctx, entity.LatLng{Lat: 1, Lng: 1})
		require.NoError(t, err)
		second, err := svc.Click(ctx, entity.LatLng{Lat: 2, Lng: 2})
		require.NoError(t, err)

		assert.Nil(t, first.Drawing)
		require.NotNil(t, second.Drawing)
		assert.Equal(t, entity.DrawingPolyline, second.Drawing.Type)
		assert.Len(t, second.Drawing.Positions, 2)
	})

	t.Run("Switching mode drops pending points", func(t *testing.T) {
		svc := newTestMap(t)
		require.NoError(t, svc.SetMode(entity.ModePolygon))
		_, err := svc.Click(ctx, point)
		require.NoError(t, err)

		require.NoError(t, svc.SetMode(entity.ModePolyline))

		assert.Empty(t, svc.Pending())
	})
}

func TestMapService_Remove(t *testing.T) {
	ctx := context.Background()
	svc := newTestMap(t)

	require.NoError(t, svc.SetMode(entity.ModeMarker))
	marker, err := svc.Click(ctx, entity.LatLng{Lat: 1, Lng: 2})
	require.NoError(t, err)

	require.NoError(t, svc.SetMode(entity.ModeCircle))
	circle, err := svc.Click(ctx, entity.LatLng{Lat: 1, Lng: 2})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMarker(ctx, marker.Marker.ID))
	require.NoError(t, svc.RemoveDrawing(ctx, circle.Drawing.ID))

	require.ErrorIs(t, svc.RemoveMarker(ctx, marker.Marker.ID), apperror.ErrMarkerNotFound)
	require.ErrorIs(t, svc.RemoveDrawing(ctx, circle.Drawing.ID), apperror.ErrDrawingNotFound)
}

func TestMapService_Toggles(t *testing.T) {
	ctx := context.Background()

	// Given: one marker and one drawing
	svc := newTestMap(t)
	require.NoError(t, svc.SetMode(entity.ModeMarker))
	_, err := svc.Click(ctx, entity.LatLng{})
	require.NoError(t, err)
	require.NoError(t, svc.SetMode(entity.ModeCircle))
	_, err = svc.Click(ctx, entity.LatLng{})
	require.NoError(t, err)

	// When: hiding both layers
	assert.False(t, svc.ToggleMarkers())
	assert.False(t, svc.ToggleDrawings())

	// Then: nothing is listed
	markers, err := svc.Markers(ctx)
	require.NoError(t, err)
	assert.Empty(t, markers)
	drawings, err := svc.Drawings(ctx)
	require.NoError(t, err)
	assert.Empty(t, drawings)

	// When: showing them again
	assert.True(t, svc.ToggleMarkers())
	assert.True(t, svc.ToggleDrawings())

	// Then: the collections were kept
	markers, err = svc.Markers(ctx)
	require.NoError(t, err)
	assert.Len(t, markers, 1)
	drawings, err = svc.Drawings(ctx)
	require.NoError(t, err)
	assert.Len(t, drawings, 1)
}

func TestMapService_Viewport(t *testing.T) {
	t.Run("Zoom is clamped", func(t *testing.T) {
		svc := newTestMap(t)

		assert.Equal(t, 11, svc.Zoom(1))
		assert.Equal(t, 19, svc.Zoom(100))
		assert.Equal(t, 1, svc.Zoom(-100))
	})

	t.Run("Fly to uses the close-up zoom", func(t *testing.T) {
		svc := newTestMap(t)
		target := entity.LatLng{Lat: 48.8566, Lng: 2.3522}

		svc.FlyTo(target)

		assert.Equal(t, Viewport{Center: target, Zoom: entity.FlyToZoom}, svc.Viewport())
	})

	t.Run("Pan moves the center by a zoom-scaled step", func(t *testing.T) {
		svc := newTestMap(t)
		start := svc.Viewport().Center
		step := panStep(10)

		north, err := svc.Pan(PanNorth)
		require.NoError(t, err)
		assert.InDelta(t, start.Lat+step, north.Lat, 1e-9)

		east, err := svc.Pan(PanEast)
		require.NoError(t, err)
		assert.InDelta(t, start.Lng+step, east.Lng, 1e-9)

		_, err = svc.Pan("up")
		require.ErrorIs(t, err, apperror.ErrUnknownDirection)
	})

	t.Run("Pan wraps longitude and stops at the poles", func(t *testing.T) {
		conf := defaultMapConfig()
		conf.CenterLat = 85
		conf.CenterLng = 179.9
		conf.Zoom = 1
		svc, err := NewMapService(discardLogger(), conf, repository.NewMarkerRepository(), repository.NewDrawingRepository())
		require.NoError(t, err)

		north, err := svc.Pan(PanNorth)
		require.NoError(t, err)
		assert.InDelta(t, maxLatitude, north.Lat, 1e-9)

		east, err := svc.Pan(PanEast)
		require.NoError(t, err)
		assert.Less(t, east.Lng, 0.0)
		assert.GreaterOrEqual(t, east.Lng, -halfTurn)
	})
}

func TestMapService_Mode(t *testing.T) {
	svc := newTestMap(t)

	require.ErrorIs(t, svc.SetMode("erase"), apperror.ErrUnknownMode)
	require.ErrorIs(t, svc.SetLayer("watercolor"), apperror.ErrUnknownLayer)

	require.NoError(t, svc.SetLayer(entity.LayerTerrain))
	assert.Equal(t, "Terrain", svc.Layer().Name)
}

func TestMapService_UserLocation(t *testing.T) {
	ctx := context.Background()
	svc := newTestMap(t)

	assert.Nil(t, svc.UserLocation())

	svc.SetUserLocation(entity.LatLng{Lat: 52.52, Lng: 13.405})

	location := svc.UserLocation()
	require.NotNil(t, location)
	assert.InDelta(t, entity.UserLocationRadius, location.Radius, 1e-9)

	drawings, err := svc.Drawings(ctx)
	require.NoError(t, err)
	assert.Empty(t, drawings)
}
