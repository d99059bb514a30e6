// Package logtail reads the tail of the viewer's own log file for the
// activity overlay.
//
// # Overview
//
// The terminal belongs to the UI, so poll and extension failures are written
// to a log file instead of stderr. Read extracts the last N lines of that
// file with a ring buffer, using O(N) memory regardless of file size, and
// Parse splits each line into its timestamp and message.
//
// Lines are expected in the standard logger format with the "lookout"
// prefix:
//
//	lookout 2024/03/01 07:05:09 manifest poll failed: timeout
//
// Lines in any other format (a panic trace, say) are kept whole with a zero
// time. Messages mentioning a failure are flagged as problems so the overlay
// can highlight them.
//
// A missing log file is not an error: the overlay simply shows nothing.
package logtail
