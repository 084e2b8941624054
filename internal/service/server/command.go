package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	api "github.com/oshokin/world-clock/internal/api/grpc/worldclock"
	"github.com/oshokin/world-clock/internal/api/ws/feed"
	"github.com/oshokin/world-clock/internal/config"
	"github.com/oshokin/world-clock/internal/logger"
	"github.com/oshokin/world-clock/internal/service/board"
	"github.com/oshokin/world-clock/internal/service/frameloop"
)

// Options controls the world-clock-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress overrides the gRPC listen address.
	ListenAddress string
	// FeedAddress overrides the websocket feed address.
	FeedAddress string
	// FrameRate overrides the configured frames per second when positive.
	FrameRate int
	// DefaultZone overrides the zone shown on startup.
	DefaultZone string
}

const shutdownTimeout = 5 * time.Second

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run builds the board, starts the frame loop and serves gRPC (and the feed,
// when configured) until ctx is canceled.
//
//nolint:funlen // Wiring reads best top to bottom.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "world-clock-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyOverrides(settings, opts)

	if err = logger.Configure(settings.LogLevel); err != nil {
		return err
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	registry, err := settings.Registry()
	if err != nil {
		return fmt.Errorf("build zone registry: %w", err)
	}

	app := board.New(
		registry,
		board.WithCanvasSize(settings.CanvasSize),
		board.WithDefaultZone(settings.DefaultZone),
	)

	loop := frameloop.New(app, frameloop.WithFrameRate(settings.FrameRate))
	app.SetScheduler(loop)

	defer loop.Stop()

	if err = app.Start(ctx); err != nil {
		return fmt.Errorf("start board: %w", err)
	}

	logger.InfoKV(ctx, "Board started",
		"zones", registry.Len(),
		"default_zone", settings.DefaultZone,
		"frame_interval", loop.Interval().String(),
		"log_level", logger.Level().String(),
	)

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(api.LoggingInterceptor(logger.FromContext(ctx))))
	api.RegisterWorldClockServer(grpcServer, api.NewServer(app))

	stopFeed, err := startFeed(ctx, &lc, app, settings)
	if err != nil {
		grpcServer.Stop()

		_ = lis.Close()

		return err
	}

	logger.InfoKV(ctx, "World clock server listening", "listen_address", listenAddress)

	// Closed after GracefulStop so Run only returns once the server is down.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down")
		stopFeed()
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		stopFeed()

		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.InfoKV(ctx, "World clock server stopped", "frames", loop.Frames())

	return nil
}

// startFeed serves the websocket feed when an address is configured.
// The returned function stops it.
func startFeed(ctx context.Context, lc *net.ListenConfig, app *board.App, settings *config.Config) (func(), error) {
	if settings.FeedAddress == "" {
		return func() {}, nil
	}

	lis, err := lc.Listen(ctx, "tcp", settings.FeedAddress)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", settings.FeedAddress, err)
	}

	handler := feed.NewHandler(app, settings.FeedInterval)
	httpServer := &http.Server{
		Handler:           handler.Routes(),
		ReadHeaderTimeout: settings.Timeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Feed server failed", "error", err)
		}
	}()

	logger.InfoKV(ctx, "Frame feed listening", "feed_address", settings.FeedAddress, "interval", settings.FeedInterval.String())

	return func() {
		handler.Close()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "Feed shutdown failed", "error", err)
		}
	}, nil
}

// applyOverrides copies non-empty command line values over the settings.
func applyOverrides(settings *config.Config, opts *Options) {
	if opts.FeedAddress != "" {
		settings.FeedAddress = opts.FeedAddress
	}

	if opts.FrameRate > 0 {
		settings.FrameRate = min(opts.FrameRate, frameloop.MaxFrameRate)
	}

	if opts.DefaultZone != "" {
		settings.DefaultZone = opts.DefaultZone
	}
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr
// and binds on all interfaces.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
