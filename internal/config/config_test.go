package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/world-clock/internal/domain/zone"
)

// TestValidate checks required fields and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Missing socket.
	require.Error(t, Validate(new(Config)))

	// Bad socket.
	require.Error(t, Validate(&Config{ServerAddress: "bad:address"}))

	// Bad feed socket.
	require.Error(t, Validate(&Config{ServerAddress: "127.0.0.1:0", FeedAddress: "nope:nope"}))

	// Frame rate out of range.
	require.Error(t, Validate(&Config{ServerAddress: "127.0.0.1:0", FrameRate: 1000}))
	require.Error(t, Validate(&Config{ServerAddress: "127.0.0.1:0", FrameRate: -1}))

	// Unknown default zone.
	require.ErrorIs(t, Validate(&Config{ServerAddress: "127.0.0.1:0", DefaultZone: "atlantis"}), zone.ErrUnknownZone)

	// Broken extra zone.
	err := Validate(&Config{
		ServerAddress: "127.0.0.1:0",
		Zones:         []zone.Descriptor{{Key: "mars", OffsetHours: 20, DisplayName: "MARS"}},
	})
	require.ErrorIs(t, err, zone.ErrInvalidZone)

	// Bad log level.
	require.Error(t, Validate(&Config{ServerAddress: "127.0.0.1:0", LogLevel: "chatty"}))
}

// TestValidate_Defaults checks that missing values are filled in.
func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{ServerAddress: "127.0.0.1:0"}
	require.NoError(t, Validate(cfg))

	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultFeedInterval, cfg.FeedInterval)
	require.InDelta(t, DefaultCanvasSize, cfg.CanvasSize, 0)
	require.Equal(t, 60, cfg.FrameRate)
	require.Equal(t, "msk", cfg.DefaultZone)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		ServerAddress: "127.0.0.1:50051",
		FeedAddress:   "127.0.0.1:8080",
		Timeout:       3 * time.Second,
		FrameRate:     30,
		DefaultZone:   "kathmandu",
		Zones: []zone.Descriptor{
			{Key: "kathmandu", OffsetHours: 6, DisplayName: "KATHMANDU"},
		},
	}

	require.NoError(t, Save(path, settings))

	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	registry, err := loaded.Registry()
	require.NoError(t, err)

	d, err := registry.Lookup("kathmandu")
	require.NoError(t, err)
	require.Equal(t, 6, d.OffsetHours)
}

// TestLoad_YAMLKeys pins the on-disk key names.
func TestLoad_YAMLKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	raw := `server_addr: "127.0.0.1:50051"
feed_interval: 250ms
frame_rate: 24
default_zone: tokyo
zones:
  - key: honolulu
    offset: -10
    name: HONOLULU
`
	require.NoError(t, os.WriteFile(path, []byte(raw), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, cfg.FeedInterval)
	require.Equal(t, 24, cfg.FrameRate)
	require.Equal(t, "tokyo", cfg.DefaultZone)
	require.Equal(t, []zone.Descriptor{{Key: "honolulu", OffsetHours: -10, DisplayName: "HONOLULU"}}, cfg.Zones)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
