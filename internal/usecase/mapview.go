package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
)

type mapService interface {
	FlyTo(center entity.LatLng)
	SetUserLocation(point entity.LatLng)
}

type searchService interface {
	Search(ctx context.Context, query string) (*entity.Place, error)
}

type locator interface {
	Locate(ctx context.Context) (entity.LatLng, error)
}

// MapViewer ties the map state to the two network lookups. Both lookups may run off the UI loop.
type MapViewer struct {
	logger *slog.Logger

	mapService    mapService
	searchService searchService
	locator       locator

	searching atomic.Bool
}

func NewMapViewer(logger *slog.Logger, mapService mapService, searchService searchService, locator locator) *MapViewer {
	return &MapViewer{
		logger: logger.With("component", "map_viewer"),

		mapService:    mapService,
		searchService: searchService,
		locator:       locator,
	}
}

// Search - looks the place up and flies the map to it. Only one search runs at a time.
func (that *MapViewer) Search(ctx context.Context, query string) (*entity.Place, error) {
	log := that.logger.With("method", "Search")

	if strings.TrimSpace(query) == "" {
		return nil, apperror.ErrEmptyQuery
	}

	if !that.searching.CompareAndSwap(false, true) {
		return nil, apperror.ErrSearchInProgress
	}
	defer that.searching.Store(false)

	place, err := that.searchService.Search(ctx, query)
	if err != nil {
		log.Error("search failed", "query", query, "error", err)
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}

	that.mapService.FlyTo(place.LatLng)

	return place, nil
}

// IsSearching - reports whether a search is in flight.
func (that *MapViewer) IsSearching() bool {
	return that.searching.Load()
}

// Locate - finds the user, marks the spot and flies there.
func (that *MapViewer) Locate(ctx context.Context) (entity.LatLng, error) {
	log := that.logger.With("method", "Locate")

	position, err := that.locator.Locate(ctx)
	if err != nil {
		log.Warn("geolocation failed", "error", err)
		return entity.LatLng{}, fmt.Errorf("failed to locate: %w", err)
	}

	that.mapService.SetUserLocation(position)
	that.mapService.FlyTo(position)

	return position, nil
}
