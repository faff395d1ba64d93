package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
)

const (
	ProviderIP     = "ip"
	ProviderStatic = "static"
	ProviderNone   = "none"

	ipAPISuccess = "success"
)

var ErrUnknownProvider = errors.New("unknown geolocation provider")

// Locator gives one best-effort position of the user.
type Locator interface {
	Locate(ctx context.Context) (entity.LatLng, error)
}

func NewLocator(logger *slog.Logger, conf config.Geolocation) (Locator, error) {
	switch conf.Provider {
	case ProviderIP:
		return &ipLocator{
			logger:   logger.With("component", "locator"),
			client:   &http.Client{Timeout: conf.Timeout},
			endpoint: conf.Endpoint,
		}, nil
	case ProviderStatic:
		return &staticLocator{position: entity.LatLng{Lat: conf.StaticLat, Lng: conf.StaticLng}}, nil
	case ProviderNone, "":
		return noLocator{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, conf.Provider)
	}
}

type ipLocator struct {
	logger   *slog.Logger
	client   *http.Client
	endpoint string
}

// ipAPIResponse follows the ip-api.com JSON format.
type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
}

func (that *ipLocator) Locate(ctx context.Context) (entity.LatLng, error) {
	log := that.logger.With("method", "Locate")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, that.endpoint, nil)
	if err != nil {
		return entity.LatLng{}, fmt.Errorf("failed to build geolocation request: %w", err)
	}

	resp, err := that.client.Do(req)
	if err != nil {
		return entity.LatLng{}, fmt.Errorf("%w: %w", apperror.ErrGeolocationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.LatLng{}, fmt.Errorf("%w: %s", apperror.ErrGeolocationUnavailable, resp.Status)
	}

	var body ipAPIResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entity.LatLng{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if body.Status != ipAPISuccess {
		return entity.LatLng{}, fmt.Errorf("%w: %s", apperror.ErrGeolocationUnavailable, body.Message)
	}

	log.Info("located", "city", body.City)

	return entity.LatLng{Lat: body.Lat, Lng: body.Lon}, nil
}

type staticLocator struct {
	position entity.LatLng
}

func (that *staticLocator) Locate(_ context.Context) (entity.LatLng, error) {
	return that.position, nil
}

type noLocator struct{}

func (noLocator) Locate(_ context.Context) (entity.LatLng, error) {
	return entity.LatLng{}, apperror.ErrGeolocationUnavailable
}
