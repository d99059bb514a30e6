// Package resolve turns the relative image paths found in a manifest into
// URLs that actually load.
//
// The archive's manifests name images relative to an undocumented folder
// layout. Candidates enumerates the layouts known to work, all of them
// under an html5 folder, and Resolver probes them in order with an
// HTTPProber until one serves a decodable image. Results are memoized per
// manifest and path.
//
// Display requests are tied to a Slot. Each new request takes a fresh
// token; a result that comes back after a newer request started is
// dropped with ErrStale, so the last navigation always wins.
package resolve
