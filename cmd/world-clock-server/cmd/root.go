package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/world-clock/internal/config"
	"github.com/oshokin/world-clock/internal/service/server"
	"github.com/oshokin/world-clock/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// feedAddress overrides the websocket feed address.
	feedAddress string
	// frameRate overrides the frames per second.
	frameRate int
	// defaultZone overrides the zone shown on startup.
	defaultZone string

	// rootCmd represents the base command for running the clock server.
	rootCmd = &cobra.Command{
		Use:   "world-clock-server [listen-address]",
		Short: "Run the world clock board and serve it over gRPC.",
		Long: `Starts the world clock board: one analog clock card per selected time zone,
redrawn every frame with its date label and time-of-day background.

The default zone's card is added on startup. Clients add and remove cards through
the gRPC API; the listen address comes from the configuration file (only its port
is used) unless given as an argument (e.g., :9090, 0.0.0.0:50051).
When feed_addr is set, browsers can follow the board on ws://<feed_addr>/frames.
Cards live only as long as the process.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				FeedAddress:   feedAddress,
				FrameRate:     frameRate,
				DefaultZone:   defaultZone,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the world-clock-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&feedAddress, "feed", "", "websocket feed listen address, overrides feed_addr")
	rootCmd.Flags().IntVar(&frameRate, "fps", 0, "frames per second, overrides frame_rate")
	rootCmd.Flags().StringVarP(&defaultZone, "zone", "z", "", "zone shown on startup, overrides default_zone")
}
