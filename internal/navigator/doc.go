// Package navigator moves through the timeline by single frames and by
// semantic time boundaries, loading adjacent archive days on demand.
//
// # Boundaries
//
// A 12h boundary is a midnight or noon. Jumps always move: sitting exactly
// on a boundary jumps to the one before or after it. A 24h jump snaps to
// the nearest 12h boundary and moves one calendar day from there, so
// repeated 24h jumps stay on the same time of day.
//
// # Repeated Jumps
//
// The target of each jump is remembered in the timeline store. A following
// jump in the same mode and direction continues from that target rather
// than from the frame on screen, which may lie after the target when the
// archive has a gap. ReusePolicy bounds how long the memo stays valid:
// backward by age, forward by distance from the frame on screen.
//
// # Coverage
//
// Backward jumps prepend earlier days until the first frame is at or before
// the target, skipping empty or missing days, for at most MaxBackDays
// attempts. Forward jumps append later days until the last frame reaches
// the target and stop at the first empty or missing day.
package navigator
