package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/lookout/internal/archive"
)

// Config captures the archive location and the viewer's tuning knobs.
type Config struct {
	ArchiveOrigin string
	Camera        string
	ManifestURL   string // explicit manifest; empty means today's
	Location      *time.Location
	PollInterval  time.Duration
	ProbeTimeout  time.Duration
	MaxBackDays   int
	BackwardReuse time.Duration
	ForwardReuse  time.Duration
	LogFile       string
}

const (
	defaultConfigPath    = "~/.config/lookout/config.toml"
	defaultLogFile       = "~/.local/state/lookout/lookout.log"
	defaultArchiveOrigin = "https://archives.webcam-hd.com"
	defaultCamera        = "la-clusaz_balme"
	defaultPollSeconds   = 30
	defaultProbeMillis   = 2500
	defaultMaxBackDays   = 30
	defaultBackwardReuse = 120
	defaultForwardReuse  = 900

	// ManifestURLEnv overrides the manifest URL from the config file.
	ManifestURLEnv = "LOOKOUT_MANIFEST_URL"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ArchiveOrigin: defaultArchiveOrigin,
		Camera:        defaultCamera,
		Location:      time.Local,
		PollInterval:  defaultPollSeconds * time.Second,
		ProbeTimeout:  defaultProbeMillis * time.Millisecond,
		MaxBackDays:   defaultMaxBackDays,
		BackwardReuse: defaultBackwardReuse * time.Second,
		ForwardReuse:  defaultForwardReuse * time.Second,
		LogFile:       mustExpand(defaultLogFile),
	}
}

// Load locates and parses the config file, falling back to defaults when
// missing. The LOOKOUT_MANIFEST_URL environment variable wins over the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err := loadFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if env := strings.TrimSpace(os.Getenv(ManifestURLEnv)); env != "" {
		cfg.ManifestURL = env
	}
	return cfg, nil
}

func loadFile(resolved string) (Config, error) {
	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ArchiveOrigin        string `toml:"archive_origin"`
		Camera               string `toml:"camera"`
		ManifestURL          string `toml:"manifest_url"`
		Timezone             string `toml:"timezone"`
		PollSeconds          int    `toml:"poll_seconds"`
		ProbeTimeoutMS       int    `toml:"probe_timeout_ms"`
		MaxBackDays          int    `toml:"max_back_days"`
		BackwardReuseSeconds int    `toml:"backward_reuse_seconds"`
		ForwardReuseSeconds  int    `toml:"forward_reuse_seconds"`
		LogFile              string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.ArchiveOrigin); v != "" {
		cfg.ArchiveOrigin = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.Camera); v != "" {
		cfg.Camera = v
	}
	cfg.ManifestURL = strings.TrimSpace(raw.ManifestURL)
	if tz := strings.TrimSpace(raw.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: timezone %q: %w", tz, err)
		}
		cfg.Location = loc
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.ProbeTimeoutMS > 0 {
		cfg.ProbeTimeout = time.Duration(raw.ProbeTimeoutMS) * time.Millisecond
	}
	if raw.MaxBackDays > 0 {
		cfg.MaxBackDays = raw.MaxBackDays
	}
	if raw.BackwardReuseSeconds > 0 {
		cfg.BackwardReuse = time.Duration(raw.BackwardReuseSeconds) * time.Second
	}
	if raw.ForwardReuseSeconds > 0 {
		cfg.ForwardReuse = time.Duration(raw.ForwardReuseSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	return cfg, nil
}

// LoadDotEnv reads KEY=value pairs from the given files (".env" when none)
// into the environment without overriding variables already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Layout returns the archive layout for the configured camera.
func (c Config) Layout() archive.Layout {
	return archive.Layout{Origin: c.ArchiveOrigin, Camera: c.Camera}
}

// StartURL returns the manifest to open on launch: the explicit one, or
// today's manifest for the configured camera.
func (c Config) StartURL(now time.Time) string {
	if c.ManifestURL != "" {
		return c.ManifestURL
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return c.Layout().ManifestURL(now.In(loc))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
