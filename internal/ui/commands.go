package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/service"
)

const (
	targetMarker   = "marker"
	targetDrawing  = "drawing"
	targetMarkers  = "markers"
	targetDrawings = "drawings"

	zoomIn  = "in"
	zoomOut = "out"
)

var ErrUsage = errors.New("usage")

type mapViewer interface {
	Search(ctx context.Context, query string) (*entity.Place, error)
	Locate(ctx context.Context) (entity.LatLng, error)
	IsSearching() bool
}

type command struct {
	usage   string
	async   bool
	handler func(ctx context.Context, args []string) (string, error)
}

// Commands turns command bar lines into map operations.
type Commands struct {
	logger *slog.Logger

	mapService service.MapService
	viewer     mapViewer

	handlers map[string]command
}

func NewCommands(logger *slog.Logger, mapService service.MapService, viewer mapViewer) *Commands {
	commands := &Commands{
		logger:     logger.With("component", "commands"),
		mapService: mapService,
		viewer:     viewer,
	}

	commands.handlers = map[string]command{
		"mode":   {usage: "mode view|marker|circle|polygon|polyline", handler: commands.handleMode},
		"layer":  {usage: "layer street|satellite|terrain", handler: commands.handleLayer},
		"click":  {usage: "click <lat> <lng>", handler: commands.handleClick},
		"rm":     {usage: "rm marker|drawing <id>", handler: commands.handleRemove},
		"toggle": {usage: "toggle markers|drawings", handler: commands.handleToggle},
		"search": {usage: "search <place>", async: true, handler: commands.handleSearch},
		"locate": {usage: "locate", async: true, handler: commands.handleLocate},
		"zoom":   {usage: "zoom in|out", handler: commands.handleZoom},
		"pan":    {usage: "pan n|s|e|w", handler: commands.handlePan},
		"help":   {usage: "help", handler: commands.handleHelp},
	}

	return commands
}

// IsAsync - reports whether the command line waits on the network and must run off the UI loop.
func (that *Commands) IsAsync(line string) bool {
	name, _ := split(line)
	return that.handlers[name].async
}

func (that *Commands) IsSearching() bool {
	return that.viewer.IsSearching()
}

// Execute - runs one command line and returns the message to show.
func (that *Commands) Execute(ctx context.Context, line string) (string, error) {
	log := that.logger.With("method", "Execute")

	name, args := split(line)
	if name == "" {
		return "", nil
	}

	cmd, ok := that.handlers[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", apperror.ErrUnknownCommand, name)
	}

	message, err := cmd.handler(ctx, args)
	if errors.Is(err, ErrUsage) {
		return "", fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}

	if err != nil {
		log.Debug("command failed", "command", name, "error", err)
		return "", err
	}

	return message, nil
}

func (that *Commands) handleMode(_ context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrUsage
	}

	if err := that.mapService.SetMode(args[0]); err != nil {
		return "", err
	}

	mode := that.mapService.Mode()

	return fmt.Sprintf("%s: %s", mode.Name, mode.Description), nil
}

func (that *Commands) handleLayer(_ context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrUsage
	}

	if err := that.mapService.SetLayer(args[0]); err != nil {
		return "", err
	}

	return "Base layer: " + that.mapService.Layer().Name, nil
}

func (that *Commands) handleClick(ctx context.Context, args []string) (string, error) {
	if len(args) != 2 {
		return "", ErrUsage
	}

	lat, latErr := strconv.ParseFloat(args[0], 64)
	lng, lngErr := strconv.ParseFloat(args[1], 64)
	if latErr != nil || lngErr != nil {
		return "", ErrUsage
	}

	point := entity.LatLng{Lat: lat, Lng: lng}

	result, err := that.mapService.Click(ctx, point)
	if err != nil {
		return "", err
	}

	switch {
	case result.Marker != nil:
		return fmt.Sprintf("Marker %d at %s", result.Marker.ID, result.Marker.Position()), nil
	case result.Drawing != nil:
		return fmt.Sprintf("Drawing %d: %s", result.Drawing.ID, result.Drawing.Summary()), nil
	case result.Pending > 0:
		return fmt.Sprintf("Point %d at %s", result.Pending, point), nil
	default:
		return "Clicked " + point.String(), nil
	}
}

func (that *Commands) handleRemove(ctx context.Context, args []string) (string, error) {
	if len(args) != 2 {
		return "", ErrUsage
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", ErrUsage
	}

	switch args[0] {
	case targetMarker:
		if err = that.mapService.RemoveMarker(ctx, id); err != nil {
			return "", err
		}
		return fmt.Sprintf("Marker %d removed", id), nil
	case targetDrawing:
		if err = that.mapService.RemoveDrawing(ctx, id); err != nil {
			return "", err
		}
		return fmt.Sprintf("Drawing %d removed", id), nil
	default:
		return "", ErrUsage
	}
}

func (that *Commands) handleToggle(_ context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrUsage
	}

	var visible bool
	switch args[0] {
	case targetMarkers:
		visible = that.mapService.ToggleMarkers()
	case targetDrawings:
		visible = that.mapService.ToggleDrawings()
	default:
		return "", ErrUsage
	}

	state := "hidden"
	if visible {
		state = "shown"
	}

	return fmt.Sprintf("%s %s", strings.ToUpper(args[0][:1])+args[0][1:], state), nil
}

func (that *Commands) handleSearch(ctx context.Context, args []string) (string, error) {
	place, err := that.viewer.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s (%s)", place.DisplayName, place.LatLng), nil
}

func (that *Commands) handleLocate(ctx context.Context, _ []string) (string, error) {
	position, err := that.viewer.Locate(ctx)
	if err != nil {
		return "", err
	}

	return "You are here: " + position.String(), nil
}

func (that *Commands) handleZoom(_ context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrUsage
	}

	var zoom int
	switch args[0] {
	case zoomIn:
		zoom = that.mapService.Zoom(1)
	case zoomOut:
		zoom = that.mapService.Zoom(-1)
	default:
		return "", ErrUsage
	}

	return fmt.Sprintf("Zoom %d", zoom), nil
}

func (that *Commands) handlePan(_ context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrUsage
	}

	center, err := that.mapService.Pan(args[0])
	if err != nil {
		return "", err
	}

	return "Center " + center.String(), nil
}

func (that *Commands) handleHelp(_ context.Context, _ []string) (string, error) {
	usages := make([]string, 0, len(that.handlers))
	for _, cmd := range that.handlers {
		usages = append(usages, cmd.usage)
	}
	sort.Strings(usages)

	return strings.Join(usages, "\n"), nil
}

func split(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	return strings.ToLower(fields[0]), fields[1:]
}
