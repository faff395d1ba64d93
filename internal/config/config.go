package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const (
	AppName = "tictactoe-mapsite"

	configFileName = "config.yml"
	logFileName    = "app.log"
)

type Config struct {
	LogLevel    string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile     string      `yaml:"log-file" env:"LOG_FILE"`
	Game        Game        `yaml:"game"`
	Map         Map         `yaml:"map"`
	Search      Search      `yaml:"search"`
	Geolocation Geolocation `yaml:"geolocation"`
	Redis       Redis       `yaml:"redis"`
	Theme       Theme       `yaml:"theme"`
}

type Game struct {
	// Bot is the mark the computer plays, or empty for two local players.
	Bot string `yaml:"bot" env:"GAME_BOT"`
}

type Map struct {
	CenterLat    float64 `yaml:"center-lat" env:"MAP_CENTER_LAT" env-default:"40.7128"`
	CenterLng    float64 `yaml:"center-lng" env:"MAP_CENTER_LNG" env-default:"-74.0060"`
	Zoom         int     `yaml:"zoom" env:"MAP_ZOOM" env-default:"10"`
	MinZoom      int     `yaml:"min-zoom" env-default:"1"`
	MaxZoom      int     `yaml:"max-zoom" env-default:"19"`
	BaseLayer    string  `yaml:"base-layer" env:"MAP_BASE_LAYER" env-default:"street"`
	ShowMarkers  bool    `yaml:"show-markers" env-default:"true"`
	ShowDrawings bool    `yaml:"show-drawings" env-default:"true"`
	CircleRadius float64 `yaml:"circle-radius" env-default:"50000"`
}

type Search struct {
	Endpoint  string        `yaml:"endpoint" env:"SEARCH_ENDPOINT" env-default:"https://nominatim.openstreetmap.org/search"`
	UserAgent string        `yaml:"user-agent" env:"SEARCH_USER_AGENT" env-default:"tictactoe-mapsite/1.0"`
	Timeout   time.Duration `yaml:"timeout" env-default:"10s"`
	Limit     int           `yaml:"limit" env-default:"1"`
	Cache     SearchCache   `yaml:"cache"`
}

type SearchCache struct {
	Backend string        `yaml:"backend" env:"SEARCH_CACHE_BACKEND" env-default:"memory"`
	TTL     time.Duration `yaml:"ttl" env-default:"24h"`
}

type Geolocation struct {
	Provider  string        `yaml:"provider" env:"GEOLOCATION_PROVIDER" env-default:"ip"`
	Endpoint  string        `yaml:"endpoint" env-default:"http://ip-api.com/json/"`
	StaticLat float64       `yaml:"static-lat"`
	StaticLng float64       `yaml:"static-lng"`
	Timeout   time.Duration `yaml:"timeout" env-default:"5s"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Theme struct {
	ColorX    string `yaml:"color-x" env-default:"red"`
	ColorO    string `yaml:"color-o" env-default:"dodgerblue"`
	ColorDraw string `yaml:"color-draw" env-default:"yellow"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads the config file at path, or only the environment when path is empty.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if config.LogFile == "" {
		logFile, err := xdg.StateFile(filepath.Join(AppName, logFileName))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log file: %w", err)
		}
		config.LogFile = logFile
	}

	return config, nil
}

// Resolve - picks the config file: the explicit path, ./config.yml, then the XDG config dir.
// Returns an empty string when no file exists.
func Resolve(explicit, workDir string) string {
	if explicit != "" {
		return explicit
	}

	local := filepath.Join(workDir, configFileName)
	if _, err := os.Stat(local); err == nil {
		return local
	}

	found, err := xdg.SearchConfigFile(filepath.Join(AppName, configFileName))
	if err != nil {
		return ""
	}

	return found
}

// Save - writes the config as YAML into the XDG config dir and returns the path.
func (that *Config) Save() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(AppName, configFileName))
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	if err = that.WriteTo(path); err != nil {
		return "", err
	}

	return path, nil
}

// WriteTo - writes the config as YAML to path.
func (that *Config) WriteTo(path string) error {
	data, err := yaml.Marshal(that)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

var (
	errInvalidZoom = errors.New("invalid zoom range")
	errInvalidBot  = errors.New("bot must play X or O")
)

// Validate - rejects settings the map viewer cannot work with.
func (that *Config) Validate() error {
	if that.Map.MinZoom > that.Map.MaxZoom {
		return fmt.Errorf("%w: min %d > max %d", errInvalidZoom, that.Map.MinZoom, that.Map.MaxZoom)
	}

	if that.Map.Zoom < that.Map.MinZoom || that.Map.Zoom > that.Map.MaxZoom {
		return fmt.Errorf("%w: zoom %d outside [%d, %d]", errInvalidZoom, that.Map.Zoom, that.Map.MinZoom, that.Map.MaxZoom)
	}

	return that.Game.validate()
}

func (that *Game) validate() error {
	switch that.Bot {
	case "", "X", "O":
		return nil
	default:
		return fmt.Errorf("%w: %q", errInvalidBot, that.Bot)
	}
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
