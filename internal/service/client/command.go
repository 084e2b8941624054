package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/oshokin/world-clock/internal/config"
	"github.com/oshokin/world-clock/internal/logger"
	"github.com/oshokin/world-clock/internal/service/board"
	"github.com/oshokin/world-clock/internal/service/common"
)

// Options configures how the client reaches the server.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Timeout overrides the per-call timeout when positive.
	Timeout time.Duration
}

// DefaultWatchInterval is the pause between two polls of Watch.
const DefaultWatchInterval = time.Second

// ListZones prints the selectable zones.
func ListZones(ctx context.Context, opts *Options, out io.Writer) error {
	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	zones, err := client.ListZones(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tNAME\tOFFSET")

	for _, z := range zones {
		_, _ = fmt.Fprintf(tw, "%s\t%s\tUTC%+d\n", z.Key, z.DisplayName, z.OffsetHours)
	}

	return tw.Flush()
}

// Add puts a card for key on the board; an empty key adds the server's selection.
func Add(ctx context.Context, opts *Options, key string, out io.Writer) error {
	ctx = logger.WithName(ctx, "world-clock")

	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	card, added, err := client.AddClock(ctx, key)
	if err != nil {
		return err
	}

	if !added {
		logger.InfoKV(ctx, "Zone already on the board", "zone", card.ZoneKey)
	}

	_, err = fmt.Fprintln(out, formatCard(card))

	return err
}

// Remove takes the card of key off the board.
func Remove(ctx context.Context, opts *Options, key string, out io.Writer) error {
	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	removed, err := client.RemoveClock(ctx, key)
	if err != nil {
		return err
	}

	if !removed {
		_, err = fmt.Fprintf(out, "%s was not on the board\n", key)

		return err
	}

	_, err = fmt.Fprintf(out, "%s removed\n", key)

	return err
}

// Snapshot prints every card and, when outDir is set, writes <zone>.svg files there.
func Snapshot(ctx context.Context, opts *Options, outDir string, out io.Writer) error {
	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	selection, cards, err := client.Snapshot(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "selected: %s\n", selection)

	for _, card := range cards {
		_, _ = fmt.Fprintln(out, formatCard(card))
	}

	if outDir == "" {
		return nil
	}

	return writeFaces(outDir, cards)
}

// Watch polls the board and logs every card until ctx is canceled.
func Watch(ctx context.Context, opts *Options, interval time.Duration) error {
	ctx = logger.WithName(ctx, "world-clock-watch")

	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Watching the board", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			_, cards, err := client.Snapshot(ctx)
			if err != nil {
				logger.ErrorKV(ctx, "Snapshot failed", "error", err)

				continue
			}

			for _, card := range cards {
				logger.InfoKV(ctx, card.DisplayName,
					"zone", card.ZoneKey,
					"date", card.DateLabel,
					"period", card.Period,
				)
			}
		}
	}
}

// writeFaces stores each card's SVG as <outDir>/<zone>.svg.
func writeFaces(outDir string, cards []board.Snapshot) error {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, card := range cards {
		path := filepath.Join(outDir, filepath.Base(card.ZoneKey)+".svg")
		if err := os.WriteFile(path, []byte(card.SVG), config.DefaultFilePermissions); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	return nil
}

// formatCard renders a one-line description of a card.
func formatCard(card board.Snapshot) string {
	return fmt.Sprintf("%s (%s, UTC%+d): %s, %s", card.DisplayName, card.ZoneKey, card.OffsetHours, card.DateLabel, card.Period)
}

// connect loads settings and dials the server.
func connect(ctx context.Context, opts *Options) (*common.Client, error) {
	cfg, err := loadSettings(opts)
	if err != nil {
		return nil, err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	timeout := cfg.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	clientOptions := []common.Option{common.WithCallTimeout(timeout)}

	if requester, err := common.DetectRequester(); err == nil {
		clientOptions = append(clientOptions, common.WithRequester(requester))
	} else {
		logger.DebugKV(ctx, "Requester detection failed", "error", err)
	}

	return common.Dial(ctx, serverAddress, clientOptions...)
}

// loadSettings reads the config file. A missing file is fine when the
// server address comes from the command line.
func loadSettings(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err == nil {
		return cfg, nil
	}

	if opts.ServerAddress == "" || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	cfg = &config.Config{ServerAddress: opts.ServerAddress}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
