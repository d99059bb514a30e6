// Package app wires configuration, the archive client, the timeline, the
// background poller and the UI together.
//
// # Overview
//
// Run is the composition root:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.LoadDotEnv() .env into the environment
//	       ├─────> config.Load()       config.toml, env override
//	       ├─────> setupLogging()      standard logger to the log file
//	       ├─────> prefs.Load()        theme and preview
//	       ├─────> store.Load()        initial manifest (failure is shown, not fatal)
//	       ├─────> StartPoller()       background reconciliation
//	       └─────> ui.Run()            TUI (blocks)
//
// # Polling Behavior
//
// The poller re-fetches the session manifest every interval (default 30
// seconds). Each cycle:
//
//   - records success or failure on the store for the header's health marker
//   - skips the cycle when a navigation holds the timeline's mutation token
//   - reconciles the result: applied when the newest frame is on screen,
//     deferred behind the update indicator otherwise
//
// Failures are logged and never stop the loop.
//
// # Error Handling
//
// Only configuration errors are returned from Run. An unreachable archive
// degrades to the UI's error banner and offline marker.
package app
