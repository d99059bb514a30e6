package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lookout/internal/archive"
	"github.com/five82/lookout/internal/config"
	"github.com/five82/lookout/internal/frame"
	"github.com/five82/lookout/internal/logtail"
	"github.com/five82/lookout/internal/navigator"
	"github.com/five82/lookout/internal/prefs"
	"github.com/five82/lookout/internal/resolve"
	"github.com/five82/lookout/internal/timeline"
	"github.com/five82/lookout/internal/ui"
)

// Options configure the viewer.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/lookout/prefs.toml
	ManifestURL string // overrides config and environment
	PollEvery   int    // seconds; zero uses the configured interval
}

// Run boots the viewer until the user quits or the context is cancelled.
// Only configuration errors are returned; a manifest that cannot be loaded
// is reported inside the UI.
func Run(ctx context.Context, opts Options) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ManifestURL != "" {
		cfg.ManifestURL = opts.ManifestURL
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	logFile, closeLog := setupLogging(cfg.LogFile)
	defer closeLog()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	client := archive.NewClient(archive.WithUserAgent(archive.DefaultUserAgent))
	store := timeline.NewStore(cfg.Location)
	nav := navigator.New(store, client,
		navigator.WithLayout(cfg.Layout()),
		navigator.WithMaxBackDays(cfg.MaxBackDays),
		navigator.WithReusePolicy(navigator.ReusePolicy{
			BackwardMaxAge:  cfg.BackwardReuse,
			ForwardMaxDrift: cfg.ForwardReuse,
		}),
	)
	resolver := resolve.New(resolve.HTTPProber{
		Timeout:   cfg.ProbeTimeout,
		UserAgent: archive.DefaultUserAgent,
	})
	fetcher := frame.NewFetcher(nil, archive.DefaultUserAgent)

	// Populate the store before the UI starts; a failure is shown as a banner.
	startURL := cfg.StartURL(time.Now())
	loadErr := store.Load(ctx, client, startURL)
	if loadErr != nil {
		log.Printf("initial load of %s failed: %v", startURL, loadErr)
	}

	StartPoller(ctx, store, client, cfg.PollInterval)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Navigator: nav,
		Days:      client,
		Resolver:  resolver,
		Fetcher:   fetcher,
		ThemeName: userPrefs.Theme,
		Preview:   userPrefs.Preview,
		PrefsPath: prefsPath,
		LogFile:   logFile,
		StartURL:  startURL,
		LoadErr:   loadErr,
	})
}

// setupLogging sends the standard logger to the log file, since the
// terminal belongs to the UI. Logging is discarded when the file cannot be
// opened, in which case the returned path is empty.
func setupLogging(path string) (string, func()) {
	discard := func() (string, func()) {
		log.SetOutput(io.Discard)
		return "", func() {}
	}
	if path == "" {
		return discard()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard()
	}
	f, err := tea.LogToFile(path, logtail.Prefix)
	if err != nil {
		return discard()
	}
	return path, func() { _ = f.Close() }
}
