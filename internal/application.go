package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/render"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/repository"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/service"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/ui"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/usecase"
)

const (
	AppTicTacToe = "tictactoe"
	AppMapsite   = "mapsite"

	cacheBackendRedis = "redis"
)

var ErrUnknownApp = errors.New("unknown app")

// Options are the command line choices that are not part of the config file.
type Options struct {
	App    string
	Replay string
	Output io.Writer
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config, opts Options) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if opts.Replay != "" {
		return runReplay(logger, conf, opts)
	}

	switch opts.App {
	case AppTicTacToe:
		return runTicTacToe(ctx, logger, conf)
	case AppMapsite:
		return runMapsite(ctx, logger, conf)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownApp, opts.App)
	}
}

func runReplay(logger *slog.Logger, conf *config.Config, opts Options) error {
	steps, err := render.ParseReplay(opts.Replay)
	if err != nil {
		return fmt.Errorf("could not parse replay: %w", err)
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	game := service.NewGameService(logger, nil, "")

	return render.NewPrinter(output, conf.Theme).Replay(game, steps)
}

func runTicTacToe(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	var bot service.BotService
	if conf.Game.Bot != "" {
		bot = service.NewBotService(time.Now().UnixNano())
	}

	game := service.NewGameService(logger, bot, conf.Game.Bot)

	logger.Info("Starting tic-tac-toe", "bot", conf.Game.Bot)

	if err := ui.Run(ctx, ui.NewTicTacToeApp(logger, game, conf.Theme)); err != nil {
		return fmt.Errorf("tic-tac-toe UI error: %w", err)
	}

	return nil
}

func runMapsite(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("method", "runMapsite")

	cache, closeCache := newSearchCache(ctx, logger, conf)
	defer closeCache()

	mapService, err := service.NewMapService(logger, conf.Map, repository.NewMarkerRepository(), repository.NewDrawingRepository())
	if err != nil {
		return fmt.Errorf("could not create map: %w", err)
	}

	locator, err := service.NewLocator(logger, conf.Geolocation)
	if err != nil {
		return fmt.Errorf("could not create locator: %w", err)
	}

	searchService := service.NewSearchService(logger, conf.Search, cache)
	viewer := usecase.NewMapViewer(logger, mapService, searchService, locator)

	log.Info("Starting map viewer", "layer", conf.Map.BaseLayer, "geolocation", conf.Geolocation.Provider)

	if err = ui.Run(ctx, ui.NewMapsiteApp(ctx, logger, mapService, viewer)); err != nil {
		return fmt.Errorf("map viewer UI error: %w", err)
	}

	return nil
}

// newSearchCache - picks the search cache backend; an unreachable Redis falls back to memory.
func newSearchCache(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.SearchCache, func()) {
	log := logger.With("method", "newSearchCache")
	noop := func() {}

	if conf.Search.Cache.Backend != cacheBackendRedis {
		return repository.NewMemorySearchCache(conf.Search.Cache.TTL), noop
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		log.Warn("could not connect to redis, caching searches in memory", "error", err)
		return repository.NewMemorySearchCache(conf.Search.Cache.TTL), noop
	}

	return repository.NewRedisSearchCache(redisStorage.Connection, conf.Search.Cache.TTL), func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}
}
