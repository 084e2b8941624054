package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/world-clock/internal/config"
	"github.com/oshokin/world-clock/internal/service/client"
	"github.com/oshokin/world-clock/internal/version"
)

var (
	// options are shared by every subcommand.
	options client.Options
	// outDir is where snapshot writes SVG faces.
	outDir string
	// watchInterval is the polling interval of watch.
	watchInterval time.Duration

	// rootCmd represents the base command of the client.
	rootCmd = &cobra.Command{
		Use:          "world-clock",
		Short:        "Manage the cards of a world clock server.",
		SilenceUsage: true,
	}

	zonesCmd = &cobra.Command{
		Use:   "zones",
		Short: "List the zones a card can be added for.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return client.ListZones(cmd.Context(), &options, cmd.OutOrStdout())
		},
	}

	addCmd = &cobra.Command{
		Use:   "add [zone]",
		Short: "Add a clock card; without a zone the server's selection is used.",
		Long: `Adds a clock card for the zone. Adding a zone that is already on the board
changes nothing and prints the existing card.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) > 0 {
				key = args[0]
			}

			return client.Add(cmd.Context(), &options, key, cmd.OutOrStdout())
		},
	}

	removeCmd = &cobra.Command{
		Use:     "remove <zone>",
		Aliases: []string{"delete", "rm"},
		Short:   "Remove the clock card of a zone.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.Remove(cmd.Context(), &options, args[0], cmd.OutOrStdout())
		},
	}

	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Print the board and optionally save every face as SVG.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return client.Snapshot(cmd.Context(), &options, outDir, cmd.OutOrStdout())
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Poll the board and log every card until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return client.Watch(cmd.Context(), &options, watchInterval)
		},
	}
)

// Execute runs the world-clock CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&options.ServerAddress, "server", "s", "", "server address, overrides server_addr")
	flags.DurationVar(&options.Timeout, "timeout", 0, "per-call timeout, overrides timeout")

	snapshotCmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write <zone>.svg files into")
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", client.DefaultWatchInterval, "polling interval")

	rootCmd.AddCommand(zonesCmd, addCmd, removeCmd, snapshotCmd, watchCmd)
}
