package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/tictactoe-mapsite/internal"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/config"
)

var (
	flagApp         = flag.String("app", app.AppTicTacToe, "Interface to start (tictactoe or mapsite)")
	flagConfig      = flag.String("config", "", "Path to the config file")
	flagReplay      = flag.String("replay", "", "Play moves headless and print the board, e.g. 0,4,1,3,2;next;4")
	flagBot         = flag.String("bot", "", "Let the computer play X or O in tictactoe")
	flagWriteConfig = flag.Bool("write-config", false, "Write the effective config to the user config dir and exit")
)

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	flag.Parse()

	conf := initConfig()

	if *flagWriteConfig {
		path, err := conf.Save()
		if err != nil {
			panic(fmt.Errorf("could not write config: %w", err))
		}
		fmt.Println(path)
		return
	}

	logger, closeLog := initLogger(conf)
	defer closeLog()

	if err := app.RunApp(logger, conf, app.Options{App: *flagApp, Replay: *flagReplay}); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config.
func initConfig() *config.Config {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	conf := config.MustLoad(config.Resolve(*flagConfig, baseDir))

	if *flagBot != "" {
		conf.Game.Bot = *flagBot
	}

	if err = conf.Validate(); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	return conf
}

// initialize logger. The terminal belongs to the UI, so logs go to the log file.
func initLogger(conf *config.Config) (*slog.Logger, func()) {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if err := os.MkdirAll(filepath.Dir(conf.LogFile), 0o755); err != nil {
		panic(fmt.Errorf("failed to create log dir: %w", err))
	}

	logFile, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		panic(fmt.Errorf("failed to open log file: %w", err))
	}

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level}))

	return logger, func() { _ = logFile.Close() }
}
