package navigator

import (
	"time"

	"github.com/five82/lookout/internal/timeline"
)

func onBoundary(dt time.Time) bool {
	return dt.Hour()%12 == 0 && dt.Minute() == 0 && dt.Second() == 0 && dt.Nanosecond() == 0
}

// Previous12h returns the latest midnight or noon strictly before dt.
// A datetime sitting exactly on a boundary moves to the one before it.
func Previous12h(dt time.Time) time.Time {
	y, m, d := dt.Date()
	h := dt.Hour() / 12 * 12
	if onBoundary(dt) {
		h -= 12
	}
	if h < 0 {
		return time.Date(y, m, d-1, 12, 0, 0, 0, dt.Location())
	}
	return time.Date(y, m, d, h, 0, 0, 0, dt.Location())
}

// Next12h returns the earliest midnight or noon strictly after dt.
func Next12h(dt time.Time) time.Time {
	y, m, d := dt.Date()
	// Hour 24 normalizes to the next day's midnight.
	return time.Date(y, m, d, dt.Hour()/12*12+12, 0, 0, 0, dt.Location())
}

func previousOrSame12h(dt time.Time) time.Time {
	if onBoundary(dt) {
		return dt
	}
	return Previous12h(dt)
}

func nextOrSame12h(dt time.Time) time.Time {
	if onBoundary(dt) {
		return dt
	}
	return Next12h(dt)
}

// Nearest12h returns the closest midnight or noon to dt, preferring the
// earlier one on ties.
func Nearest12h(dt time.Time) time.Time {
	prev, next := previousOrSame12h(dt), nextOrSame12h(dt)
	if dt.Sub(prev) <= next.Sub(dt) {
		return prev
	}
	return next
}

// Previous24h is the nearest 12h boundary one calendar day earlier.
func Previous24h(dt time.Time) time.Time {
	return Nearest12h(dt).AddDate(0, 0, -1)
}

// Next24h is the nearest 12h boundary one calendar day later.
func Next24h(dt time.Time) time.Time {
	return Nearest12h(dt).AddDate(0, 0, 1)
}

// PreviousBoundary dispatches on mode.
func PreviousBoundary(dt time.Time, mode timeline.Mode) time.Time {
	if mode == timeline.Mode24h {
		return Previous24h(dt)
	}
	return Previous12h(dt)
}

// NextBoundary dispatches on mode.
func NextBoundary(dt time.Time, mode timeline.Mode) time.Time {
	if mode == timeline.Mode24h {
		return Next24h(dt)
	}
	return Next12h(dt)
}

// ReusePolicy decides when a repeated jump continues from the memoized
// boundary instead of the frame on screen.
type ReusePolicy struct {
	// BackwardMaxAge bounds the time since the boundary was stored.
	BackwardMaxAge time.Duration
	// ForwardMaxDrift bounds the distance between the current frame and
	// the stored target.
	ForwardMaxDrift time.Duration
}

// DefaultReusePolicy matches the archive viewer's key repeat feel.
var DefaultReusePolicy = ReusePolicy{
	BackwardMaxAge:  2 * time.Minute,
	ForwardMaxDrift: 15 * time.Minute,
}

// Base returns the datetime a jump in dir/mode should start from.
func (p ReusePolicy) Base(b timeline.BoundaryState, ok bool, dir timeline.Direction, mode timeline.Mode, current, now time.Time) time.Time {
	if !ok || b.Mode != mode || b.Direction != dir {
		return current
	}
	switch dir {
	case timeline.Backward:
		if now.Sub(b.SetAt) <= p.BackwardMaxAge {
			return b.Target
		}
	case timeline.Forward:
		drift := current.Sub(b.Target)
		if drift < 0 {
			drift = -drift
		}
		if drift <= p.ForwardMaxDrift {
			return b.Target
		}
	}
	return current
}
