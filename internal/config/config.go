package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/world-clock/internal/domain/zone"
	"github.com/oshokin/world-clock/internal/logger"
	"github.com/oshokin/world-clock/internal/service/frameloop"
)

// Config holds the settings shared by the world clock binaries.
type Config struct {
	// ServerAddress is the gRPC address of the clock server.
	ServerAddress string `yaml:"server_addr"`
	// FeedAddress is the HTTP address of the websocket frame feed. Empty disables it.
	FeedAddress string `yaml:"feed_addr,omitempty"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// FrameRate is how many times per second every card is redrawn.
	FrameRate int `yaml:"frame_rate"`
	// FeedInterval is how often the feed pushes a frame to viewers.
	FeedInterval time.Duration `yaml:"feed_interval"`
	// CanvasSize is the side of a card's square canvas.
	CanvasSize float64 `yaml:"canvas_size"`
	// DefaultZone is the zone shown on startup.
	DefaultZone string `yaml:"default_zone"`
	// LogLevel is the minimum level written by the logger.
	LogLevel string `yaml:"log_level,omitempty"`
	// Zones are registered after the built-in ones.
	Zones []zone.Descriptor `yaml:"zones,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "world-clock-settings.yaml"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFeedInterval is the default pause between two feed frames.
	DefaultFeedInterval = time.Second

	// DefaultCanvasSize is the default canvas side in logical units.
	DefaultCanvasSize = 250

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errFrameRateOutOfRange is returned for frame rates the loop cannot honor.
	errFrameRateOutOfRange = fmt.Errorf("frame rate must be within 1..%d", frameloop.MaxFrameRate)
)

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.FeedAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.FeedAddress); err != nil {
			return fmt.Errorf("invalid feed socket: %w", err)
		}
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.FeedInterval <= 0 {
		settings.FeedInterval = DefaultFeedInterval
	}

	if settings.CanvasSize <= 0 {
		settings.CanvasSize = DefaultCanvasSize
	}

	if settings.FrameRate == 0 {
		settings.FrameRate = frameloop.DefaultFrameRate
	}

	if settings.FrameRate < 1 || settings.FrameRate > frameloop.MaxFrameRate {
		return errFrameRateOutOfRange
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", settings.LogLevel)
	}

	if settings.DefaultZone == "" {
		settings.DefaultZone = zone.DefaultKey
	}

	// The registry enforces offsets, names and unique keys.
	registry, err := zone.NewRegistry(settings.Zones...)
	if err != nil {
		return fmt.Errorf("invalid zones: %w", err)
	}

	if _, err := registry.Lookup(settings.DefaultZone); err != nil {
		return fmt.Errorf("invalid default zone: %w", err)
	}

	return nil
}

// Registry builds the zone registry described by the configuration.
func (c *Config) Registry() (*zone.Registry, error) {
	return zone.NewRegistry(c.Zones...)
}
