// Package archive provides an HTTP client for the webcam archive's daily
// manifests and the URL convention used to address them.
//
// # Overview
//
// The archive publishes one JSON manifest per camera per day. A manifest is
// an array of day entries; only the first entry is consulted. Each entry
// lists the snapshots captured that day along with a display label and the
// calendar date:
//
//	[
//	  {
//	    "label": "La Clusaz - Balme",
//	    "date": "2024-03-01",
//	    "images": [
//	      {"hour": "0705", "src": "0705.jpg", "src_1080": "0705_1080.jpg"},
//	      {"hour": "0710", "src": "0710.jpg", "hour_folder": "07"}
//	    ]
//	  }
//	]
//
// # Components
//
//   - client.go: HTTP client, fetch-fresh request handling, request collapsing
//   - types.go: Manifest, Day and Image mirroring the manifest schema
//   - layout.go: Building and parsing <origin>/<YYYY>/<MM>/<DD>/<camera>.json
//   - errors.go: FetchError and the ErrManifestFetch sentinel
//
// # Client Usage
//
//	client := archive.NewClient()
//	day, err := client.FetchDay(ctx, "https://archives.webcam-hd.com/2024/03/01/la-clusaz_balme.json")
//	if err != nil {
//		log.Printf("manifest fetch failed: %v", err)
//	}
//
// # Request Handling
//
// Manifests change throughout the day under the same URL, so every request
// asks intermediaries not to serve a cached copy. Concurrent requests for
// the same URL (a poll racing a boundary extension, for example) share a
// single round trip.
//
// # Error Handling
//
// Network failures, non-2xx responses and undecodable bodies are reported
// as *FetchError, which matches ErrManifestFetch with errors.Is. The client
// never retries; callers decide whether a failure is user visible.
//
// # Design Rationale
//
// The client is intentionally minimal:
//   - No caching (manifests are always fetched fresh)
//   - No retries (the app layer decides the fallback)
//   - Read-only (the manifest format is owned by the archive)
package archive
