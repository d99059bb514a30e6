package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(ManifestURLEnv, "")

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ArchiveOrigin != defaultArchiveOrigin {
		t.Fatalf("ArchiveOrigin = %q, want %q", cfg.ArchiveOrigin, defaultArchiveOrigin)
	}
	if cfg.Camera != defaultCamera {
		t.Fatalf("Camera = %q, want %q", cfg.Camera, defaultCamera)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
	if cfg.ProbeTimeout != 2500*time.Millisecond {
		t.Fatalf("ProbeTimeout = %v, want 2.5s", cfg.ProbeTimeout)
	}
	if cfg.MaxBackDays != 30 {
		t.Fatalf("MaxBackDays = %d, want 30", cfg.MaxBackDays)
	}
	if cfg.BackwardReuse != 2*time.Minute || cfg.ForwardReuse != 15*time.Minute {
		t.Fatalf("reuse = %v/%v, want 2m/15m", cfg.BackwardReuse, cfg.ForwardReuse)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.ManifestURL != "" {
		t.Fatalf("ManifestURL = %q, want empty", cfg.ManifestURL)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(ManifestURLEnv, "")

	path := writeConfig(t, `
archive_origin = "  https://mirror.example/cams/  "
camera = " north "
manifest_url = " https://mirror.example/cams/2024/03/01/north.json "
timezone = "Europe/Paris"
poll_seconds = 10
probe_timeout_ms = 900
max_back_days = 7
backward_reuse_seconds = 60
forward_reuse_seconds = 300
log_file = "~/logs/lookout.log"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ArchiveOrigin != "https://mirror.example/cams" {
		t.Fatalf("ArchiveOrigin = %q", cfg.ArchiveOrigin)
	}
	if cfg.Camera != "north" {
		t.Fatalf("Camera = %q, want north", cfg.Camera)
	}
	if cfg.ManifestURL != "https://mirror.example/cams/2024/03/01/north.json" {
		t.Fatalf("ManifestURL = %q", cfg.ManifestURL)
	}
	if cfg.Location == nil || cfg.Location.String() != "Europe/Paris" {
		t.Fatalf("Location = %v, want Europe/Paris", cfg.Location)
	}
	if cfg.PollInterval != 10*time.Second || cfg.ProbeTimeout != 900*time.Millisecond {
		t.Fatalf("PollInterval/ProbeTimeout = %v/%v", cfg.PollInterval, cfg.ProbeTimeout)
	}
	if cfg.MaxBackDays != 7 || cfg.BackwardReuse != time.Minute || cfg.ForwardReuse != 5*time.Minute {
		t.Fatalf("MaxBackDays/reuse = %d/%v/%v", cfg.MaxBackDays, cfg.BackwardReuse, cfg.ForwardReuse)
	}
	if cfg.LogFile != filepath.Join(home, "logs/lookout.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
}

func TestLoad_EnvOverridesManifestURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(ManifestURLEnv, "https://env.example/2024/01/02/cam.json")

	path := writeConfig(t, `manifest_url = "https://file.example/2024/01/01/cam.json"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ManifestURL != "https://env.example/2024/01/02/cam.json" {
		t.Fatalf("ManifestURL = %q, want env value", cfg.ManifestURL)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeConfig(t, `camera = [`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_UnknownTimezoneFails(t *testing.T) {
	path := writeConfig(t, `timezone = "Mars/Olympus_Mons"`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "timezone") {
		t.Fatalf("Load error = %v, want timezone error", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv(ManifestURLEnv, "")
	os.Unsetenv(ManifestURLEnv)

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(ManifestURLEnv+"=https://dotenv.example/2024/05/06/cam.json\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv(ManifestURLEnv); got != "https://dotenv.example/2024/05/06/cam.json" {
		t.Fatalf("%s = %q", ManifestURLEnv, got)
	}
}

func TestStartURL(t *testing.T) {
	cfg := Default()
	cfg.Location = time.UTC
	now := time.Date(2024, time.March, 1, 23, 30, 0, 0, time.UTC)

	want := "https://archives.webcam-hd.com/2024/03/01/la-clusaz_balme.json"
	if got := cfg.StartURL(now); got != want {
		t.Fatalf("StartURL = %q, want %q", got, want)
	}

	cfg.ManifestURL = "https://x.example/2020/01/01/cam.json"
	if got := cfg.StartURL(now); got != cfg.ManifestURL {
		t.Fatalf("StartURL = %q, want explicit manifest", got)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
