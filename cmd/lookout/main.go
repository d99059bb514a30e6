package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/lookout/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	var opts app.Options

	rootCmd := &cobra.Command{
		Use:   "lookout [flags]",
		Short: "Browse a webcam snapshot archive in the terminal",
		Long: `lookout shows the daily snapshot archive of a webcam, one frame at a time.

It starts on today's manifest (or the one given with --manifest), follows new
snapshots as they are published, and extends the timeline into earlier or later
days as you navigate.

Examples:
  lookout                                                   # today's archive for the configured camera
  lookout --manifest https://archive.example/2024/03/01/cam.json
  lookout --poll 60                                         # check for new snapshots every minute`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return app.Run(ctx, opts)
		},
	}

	rootCmd.Flags().StringVar(&opts.ConfigPath, "config", "",
		"config file path (default ~/.config/lookout/config.toml)")
	rootCmd.Flags().StringVar(&opts.PrefsPath, "prefs", "",
		"preferences file path (default ~/.config/lookout/prefs.toml)")
	rootCmd.Flags().StringVar(&opts.ManifestURL, "manifest", "",
		"manifest URL to open instead of today's")
	rootCmd.Flags().IntVar(&opts.PollEvery, "poll", 0,
		"manifest poll interval in seconds (default from config, 30s)")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "lookout: %v\n", err)
		return 1
	}
	return 0
}
