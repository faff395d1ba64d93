package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
)

const (
	PanNorth = "n"
	PanSouth = "s"
	PanEast  = "e"
	PanWest  = "w"
)

const (
	maxLatitude = 85.0511
	fullTurn    = 360.0
	halfTurn    = 180.0
	// a pan moves the center by this share of the visible width
	panShare = 0.25
)

type markerRepo interface {
	Create(ctx context.Context, marker *entity.Marker) error
	List(ctx context.Context) ([]*entity.Marker, error)
	DeleteByID(ctx context.Context, id int64) error
}

type drawingRepo interface {
	Create(ctx context.Context, drawing *entity.Drawing) error
	List(ctx context.Context) ([]*entity.Drawing, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Viewport is what the mapping widget is asked to show.
type Viewport struct {
	Center entity.LatLng
	Zoom   int
}

// ClickResult reports what a map click produced. At most one of Marker and Drawing is set.
type ClickResult struct {
	Marker  *entity.Marker
	Drawing *entity.Drawing
	Pending int
}

type MapService interface {
	Mode() entity.Mode
	SetMode(id string) error
	Layer() entity.BaseLayer
	SetLayer(id string) error

	Viewport() Viewport
	FlyTo(center entity.LatLng)
	Zoom(delta int) int
	Pan(direction string) (entity.LatLng, error)

	Click(ctx context.Context, point entity.LatLng) (ClickResult, error)
	Pending() []entity.LatLng

	Markers(ctx context.Context) ([]*entity.Marker, error)
	Drawings(ctx context.Context) ([]*entity.Drawing, error)
	RemoveMarker(ctx context.Context, id int64) error
	RemoveDrawing(ctx context.Context, id int64) error

	ToggleMarkers() bool
	ToggleDrawings() bool

	SetUserLocation(point entity.LatLng)
	UserLocation() *entity.Drawing
}

type mapService struct {
	logger *slog.Logger

	markerRepo  markerRepo
	drawingRepo drawingRepo

	mu           sync.Mutex
	mode         entity.Mode
	layer        entity.BaseLayer
	viewport     Viewport
	minZoom      int
	maxZoom      int
	circleRadius float64
	pending      []entity.LatLng
	showMarkers  bool
	showDrawings bool
	userLocation *entity.Drawing
}

func NewMapService(logger *slog.Logger, conf config.Map, markerRepo markerRepo, drawingRepo drawingRepo) (MapService, error) {
	layer, err := entity.FindBaseLayer(conf.BaseLayer)
	if err != nil {
		return nil, fmt.Errorf("failed to pick base layer: %w", err)
	}

	mode, err := entity.FindMode(entity.ModeView)
	if err != nil {
		return nil, fmt.Errorf("failed to pick mode: %w", err)
	}

	circleRadius := conf.CircleRadius
	if circleRadius <= 0 {
		circleRadius = entity.DefaultCircleRadius
	}

	return &mapService{
		logger:      logger.With("component", "map"),
		markerRepo:  markerRepo,
		drawingRepo: drawingRepo,

		mode:  mode,
		layer: layer,
		viewport: Viewport{
			Center: entity.LatLng{Lat: conf.CenterLat, Lng: conf.CenterLng},
			Zoom:   clampInt(conf.Zoom, conf.MinZoom, conf.MaxZoom),
		},
		minZoom:      conf.MinZoom,
		maxZoom:      conf.MaxZoom,
		circleRadius: circleRadius,
		showMarkers:  conf.ShowMarkers,
		showDrawings: conf.ShowDrawings,
	}, nil
}

func (that *mapService) Mode() entity.Mode {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.mode
}

// SetMode - switches the click mode and drops any unfinished shape.
func (that *mapService) SetMode(id string) error {
	mode, err := entity.FindMode(id)
	if err != nil {
		return err
	}

	that.mu.Lock()
	that.mode = mode
	that.pending = nil
	that.mu.Unlock()

	that.logger.Debug("mode changed", "mode", mode.ID)

	return nil
}

func (that *mapService) Layer() entity.BaseLayer {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.layer
}

func (that *mapService) SetLayer(id string) error {
	layer, err := entity.FindBaseLayer(id)
	if err != nil {
		return err
	}

	that.mu.Lock()
	that.layer = layer
	that.mu.Unlock()

	that.logger.Debug("layer changed", "layer", layer.ID)

	return nil
}

func (that *mapService) Viewport() Viewport {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.viewport
}

// FlyTo - centers the map on a point at the close-up zoom level.
func (that *mapService) FlyTo(center entity.LatLng) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.viewport = Viewport{
		Center: center,
		Zoom:   clampInt(entity.FlyToZoom, that.minZoom, that.maxZoom),
	}
}

// Zoom - changes the zoom by delta within the configured range and returns the new level.
func (that *mapService) Zoom(delta int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.viewport.Zoom = clampInt(that.viewport.Zoom+delta, that.minZoom, that.maxZoom)

	return that.viewport.Zoom
}

func (that *mapService) Pan(direction string) (entity.LatLng, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	step := panStep(that.viewport.Zoom)
	center := that.viewport.Center

	switch direction {
	case PanNorth:
		center.Lat = math.Min(center.Lat+step, maxLatitude)
	case PanSouth:
		center.Lat = math.Max(center.Lat-step, -maxLatitude)
	case PanEast:
		center.Lng = wrapLongitude(center.Lng + step)
	case PanWest:
		center.Lng = wrapLongitude(center.Lng - step)
	default:
		return center, fmt.Errorf("%w: %s", apperror.ErrUnknownDirection, direction)
	}

	that.viewport.Center = center

	return center, nil
}

// Click - applies a map click according to the current mode.
func (that *mapService) Click(ctx context.Context, point entity.LatLng) (ClickResult, error) {
	log := that.logger.With("method", "Click")

	that.mu.Lock()
	mode := that.mode.ID

	var shape *entity.Drawing

	switch mode {
	case entity.ModeMarker:
		that.mu.Unlock()

		marker := &entity.Marker{Lat: point.Lat, Lng: point.Lng}
		if err := that.markerRepo.Create(ctx, marker); err != nil {
			return ClickResult{}, fmt.Errorf("failed to add marker: %w", err)
		}

		log.Info("marker added", "id", marker.ID, "position", point.String())

		return ClickResult{Marker: marker}, nil
	case entity.ModeCircle:
		shape = entity.NewCircle(point, that.circleRadius)
	case entity.ModePolygon, entity.ModePolyline:
		that.pending = append(that.pending, point)

		required := entity.PolylineMinPoints
		if mode == entity.ModePolygon {
			required = entity.PolygonMinPoints
		}

		if len(that.pending) < required {
			pending := len(that.pending)
			that.mu.Unlock()

			return ClickResult{Pending: pending}, nil
		}

		if mode == entity.ModePolygon {
			shape = entity.NewPolygon(that.pending)
		} else {
			shape = entity.NewPolyline(that.pending)
		}
		that.pending = nil
	}
	that.mu.Unlock()

	if shape == nil {
		return ClickResult{}, nil
	}

	if err := that.drawingRepo.Create(ctx, shape); err != nil {
		return ClickResult{}, fmt.Errorf("failed to add drawing: %w", err)
	}

	log.Info("drawing added", "id", shape.ID, "type", shape.Type)

	return ClickResult{Drawing: shape}, nil
}

func (that *mapService) Pending() []entity.LatLng {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.LatLng(nil), that.pending...)
}

// Markers - lists markers, or nothing while the marker layer is hidden.
func (that *mapService) Markers(ctx context.Context) ([]*entity.Marker, error) {
	that.mu.Lock()
	visible := that.showMarkers
	that.mu.Unlock()

	if !visible {
		return nil, nil
	}

	markers, err := that.markerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list markers: %w", err)
	}

	return markers, nil
}

// Drawings - lists drawings, or nothing while the drawing layer is hidden.
func (that *mapService) Drawings(ctx context.Context) ([]*entity.Drawing, error) {
	that.mu.Lock()
	visible := that.showDrawings
	that.mu.Unlock()

	if !visible {
		return nil, nil
	}

	drawings, err := that.drawingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drawings: %w", err)
	}

	return drawings, nil
}

func (that *mapService) RemoveMarker(ctx context.Context, id int64) error {
	if err := that.markerRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to remove marker: %w", err)
	}

	that.logger.Info("marker removed", "id", id)

	return nil
}

func (that *mapService) RemoveDrawing(ctx context.Context, id int64) error {
	if err := that.drawingRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to remove drawing: %w", err)
	}

	that.logger.Info("drawing removed", "id", id)

	return nil
}

func (that *mapService) ToggleMarkers() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.showMarkers = !that.showMarkers

	return that.showMarkers
}

func (that *mapService) ToggleDrawings() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.showDrawings = !that.showDrawings

	return that.showDrawings
}

// SetUserLocation - replaces the user-location circle. It is not one of the drawings.
func (that *mapService) SetUserLocation(point entity.LatLng) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.userLocation = entity.NewCircle(point, entity.UserLocationRadius)
}

func (that *mapService) UserLocation() *entity.Drawing {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.userLocation == nil {
		return nil
	}

	location := *that.userLocation

	return &location
}

// panStep - degrees covered by a pan at the zoom level; a zoom 0 world is one full turn wide.
func panStep(zoom int) float64 {
	return fullTurn / math.Pow(2, float64(zoom)) * panShare
}

func wrapLongitude(lng float64) float64 {
	wrapped := math.Mod(lng+halfTurn, fullTurn)
	if wrapped < 0 {
		wrapped += fullTurn
	}

	return wrapped - halfTurn
}

func clampInt(value, lower, upper int) int {
	return max(lower, min(value, upper))
}
