package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/repository"
)

type SearchService interface {
	Search(ctx context.Context, query string) (*entity.Place, error)
}

type searchCache interface {
	Get(ctx context.Context, query string) (*entity.Place, error)
	Set(ctx context.Context, query string, place *entity.Place) error
}

type searchService struct {
	logger *slog.Logger

	client    *http.Client
	endpoint  string
	userAgent string
	limit     int

	cache searchCache
}

// nominatimPlace is one entry of a Nominatim JSON answer; coordinates arrive as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewSearchService(logger *slog.Logger, conf config.Search, cache searchCache) SearchService {
	return &searchService{
		logger:    logger.With("component", "search"),
		client:    &http.Client{Timeout: conf.Timeout},
		endpoint:  conf.Endpoint,
		userAgent: conf.UserAgent,
		limit:     max(conf.Limit, 1),
		cache:     cache,
	}
}

// Search - resolves a place name to its first match, consulting the cache first.
func (that *searchService) Search(ctx context.Context, query string) (*entity.Place, error) {
	log := that.logger.With("method", "Search")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.ErrEmptyQuery
	}

	place, err := that.cache.Get(ctx, query)
	if err == nil {
		log.Debug("served from cache", "query", query)
		return place, nil
	}

	if !errors.Is(err, repository.ErrCacheMiss) {
		log.Warn("search cache unavailable", "error", err)
	}

	place, err = that.lookup(ctx, query)
	if err != nil {
		return nil, err
	}

	if err = that.cache.Set(ctx, query, place); err != nil {
		log.Warn("could not cache search result", "error", err)
	}

	log.Info("location found", "query", query, "place", place.DisplayName)

	return place, nil
}

func (that *searchService) lookup(ctx context.Context, query string) (*entity.Place, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(that.limit))
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, that.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	req.Header.Set("User-Agent", that.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := that.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed: %s", resp.Status) //nolint: err113 // status is the whole story
	}

	var results []nominatimPlace
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", apperror.ErrLocationNotFound, query)
	}

	return results[0].toPlace()
}

func (that nominatimPlace) toPlace() (*entity.Place, error) {
	lat, err := strconv.ParseFloat(that.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", that.Lat, err)
	}

	lng, err := strconv.ParseFloat(that.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", that.Lon, err)
	}

	return &entity.Place{
		LatLng:      entity.LatLng{Lat: lat, Lng: lng},
		DisplayName: that.DisplayName,
	}, nil
}
