package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/apperror"
)

const (
	ModeView     = "view"
	ModeMarker   = "marker"
	ModeCircle   = "circle"
	ModePolygon  = "polygon"
	ModePolyline = "polyline"
)

const (
	DrawingCircle   = "circle"
	DrawingPolygon  = "polygon"
	DrawingPolyline = "polyline"
)

const (
	LayerStreet    = "street"
	LayerSatellite = "satellite"
	LayerTerrain   = "terrain"
)

const (
	DefaultCircleRadius       = 50000.0
	UserLocationRadius        = 500.0
	FlyToZoom                 = 13
	PolygonMinPoints          = 3
	PolylineMinPoints         = 2
	metersPerKilometer        = 1000.0
	coordinateDisplayDecimals = 4
)

type Mode struct {
	ID          string
	Name        string
	Description string
}

var Modes = []Mode{
	{ID: ModeView, Name: "View Mode", Description: "Pan and zoom the map"},
	{ID: ModeMarker, Name: "Add Marker", Description: "Click to place markers"},
	{ID: ModeCircle, Name: "Draw Circle", Description: "Click to draw circles"},
	{ID: ModePolygon, Name: "Draw Polygon", Description: "Click 3+ points to create polygon"},
	{ID: ModePolyline, Name: "Draw Line", Description: "Click 2+ points to draw line"},
}

func FindMode(id string) (Mode, error) {
	for _, mode := range Modes {
		if mode.ID == id {
			return mode, nil
		}
	}
	return Mode{}, fmt.Errorf("%w: %s", apperror.ErrUnknownMode, id)
}

type BaseLayer struct {
	ID          string
	Name        string
	URL         string
	Attribution string
}

var BaseLayers = []BaseLayer{
	{
		ID:          LayerStreet,
		Name:        "Street Map",
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenStreetMap contributors",
	},
	{
		ID:          LayerSatellite,
		Name:        "Satellite",
		URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "© Esri, i-cubed, USDA, USGS, AEX, GeoEye, Getmapping, Aerogrid, IGN, IGP, UPR-EGP, and the GIS User Community",
	},
	{
		ID:          LayerTerrain,
		Name:        "Terrain",
		URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenTopoMap contributors",
	},
}

func FindBaseLayer(id string) (BaseLayer, error) {
	for _, layer := range BaseLayers {
		if layer.ID == id {
			return layer, nil
		}
	}
	return BaseLayer{}, fmt.Errorf("%w: %s", apperror.ErrUnknownLayer, id)
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (that LatLng) String() string {
	return fmt.Sprintf("%.*f, %.*f", coordinateDisplayDecimals, that.Lat, coordinateDisplayDecimals, that.Lng)
}

type Marker struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (that *Marker) Position() LatLng {
	return LatLng{Lat: that.Lat, Lng: that.Lng}
}

// Drawing is a shape on the map. Circles use Center and Radius (meters), polygons and
// polylines use Positions.
type Drawing struct {
	ID        int64    `json:"id"`
	Type      string   `json:"type"`
	Center    LatLng   `json:"center,omitempty"`
	Radius    float64  `json:"radius,omitempty"`
	Positions []LatLng `json:"positions,omitempty"`
}

func NewCircle(center LatLng, radius float64) *Drawing {
	return &Drawing{Type: DrawingCircle, Center: center, Radius: radius}
}

func NewPolygon(positions []LatLng) *Drawing {
	return &Drawing{Type: DrawingPolygon, Positions: positions}
}

func NewPolyline(positions []LatLng) *Drawing {
	return &Drawing{Type: DrawingPolyline, Positions: positions}
}

// Summary is the one-line description shown in the drawing popup.
func (that *Drawing) Summary() string {
	switch that.Type {
	case DrawingCircle:
		return fmt.Sprintf("Circle - Radius: %.2f km", that.Radius/metersPerKilometer)
	case DrawingPolygon:
		return fmt.Sprintf("Polygon - Points: %d", len(that.Positions))
	case DrawingPolyline:
		return fmt.Sprintf("Polyline - Points: %d", len(that.Positions))
	default:
		return strings.ToTitle(that.Type)
	}
}

// Place is the first match of a place-name search.
type Place struct {
	LatLng
	DisplayName string `json:"display_name"`
}
