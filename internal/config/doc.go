// Package config handles loading the Lookout configuration file.
//
// # Overview
//
// Lookout needs to know which archive to read and which camera to show.
// Everything else is tuning with sensible defaults, so the viewer works
// without any configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/lookout/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. LOOKOUT_MANIFEST_URL in the environment replaces manifest_url
//
// LoadDotEnv can populate the environment from a .env file beforehand.
// Command line flags are applied by the caller on top of the result.
//
// # TOML Format
//
//	archive_origin = "https://archives.webcam-hd.com"
//	camera = "la-clusaz_balme"
//	manifest_url = ""             # empty: today's manifest for camera
//	timezone = "Europe/Paris"     # empty: system local time
//	poll_seconds = 30
//	probe_timeout_ms = 2500
//	max_back_days = 30
//	backward_reuse_seconds = 120
//	forward_reuse_seconds = 900
//	log_file = "~/.local/state/lookout/lookout.log"
//
// All fields are optional. Tilde expansion is performed for log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and unknown time zones
package config
