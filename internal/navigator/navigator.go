package navigator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/five82/lookout/internal/archive"
	"github.com/five82/lookout/internal/timeline"
)

// DefaultMaxBackDays bounds how many days a backward jump walks looking for data.
const DefaultMaxBackDays = 30

// Navigator moves the timeline cursor, fetching neighbouring days as needed.
type Navigator struct {
	store       *timeline.Store
	days        timeline.DaySource
	layout      archive.Layout
	policy      ReusePolicy
	maxBackDays int
	now         func() time.Time
}

// Option customizes a Navigator.
type Option func(*Navigator)

// WithLayout sets the archive layout used when no loaded manifest URL can
// be parsed.
func WithLayout(l archive.Layout) Option {
	return func(n *Navigator) {
		n.layout = l
	}
}

// WithReusePolicy overrides DefaultReusePolicy.
func WithReusePolicy(p ReusePolicy) Option {
	return func(n *Navigator) {
		n.policy = p
	}
}

// WithMaxBackDays overrides DefaultMaxBackDays.
func WithMaxBackDays(days int) Option {
	return func(n *Navigator) {
		if days > 0 {
			n.maxBackDays = days
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(n *Navigator) {
		n.now = now
	}
}

// New creates a navigator over store that fetches days from src.
func New(store *timeline.Store, src timeline.DaySource, opts ...Option) *Navigator {
	n := &Navigator{
		store:       store,
		days:        src,
		policy:      DefaultReusePolicy,
		maxBackDays: DefaultMaxBackDays,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Jump moves to the first frame at or after the previous/next boundary,
// loading earlier or later days until the target is covered. Repeated
// jumps continue from the memoized boundary according to the reuse policy.
// It returns the index shown.
func (n *Navigator) Jump(ctx context.Context, dir timeline.Direction, mode timeline.Mode) (int, error) {
	if err := n.store.BeginMutation(ctx); err != nil {
		return 0, fmt.Errorf("jump %s %s: %w", dir, mode, err)
	}
	defer n.store.EndMutation()

	now := n.now()
	current, ok := n.store.CurrentTime()
	if !ok {
		current = n.sessionDay()
	}
	b, hasBoundary := n.store.Boundary()
	base := n.policy.Base(b, hasBoundary, dir, mode, current, now)

	var target time.Time
	if dir == timeline.Backward {
		target = PreviousBoundary(base, mode)
		n.coverBackward(ctx, target)
	} else {
		target = NextBoundary(base, mode)
		n.coverForward(ctx, target)
	}

	idx := n.store.FirstAtOrAfter(target)
	if idx < 0 {
		idx = 0
		if dir == timeline.Forward {
			idx = n.store.Len() - 1
		}
	}
	n.store.SetBoundary(timeline.BoundaryState{
		Target:    target,
		Mode:      mode,
		Direction: dir,
		SetAt:     now,
	})
	n.store.Show(idx, true)
	return n.store.Cursor(), nil
}

// coverBackward prepends earlier days until the first loaded frame is at or
// before target. Empty and failed days are skipped; the walk gives up after
// maxBackDays attempts.
func (n *Navigator) coverBackward(ctx context.Context, target time.Time) {
	earliest, haveEarliest := n.store.EarliestTime()
	cursorDate := n.sessionDay()
	if haveEarliest {
		cursorDate = earliest
	}
	layout := n.layoutFor(n.store.First())

	for attempts := 0; ; attempts++ {
		if haveEarliest && !target.Before(earliest) {
			return
		}
		if attempts >= n.maxBackDays || ctx.Err() != nil {
			return
		}
		cursorDate = cursorDate.AddDate(0, 0, -1)
		url := layout.ManifestURL(cursorDate)
		day, err := n.days.FetchDay(ctx, url)
		if err != nil {
			log.Printf("navigator: fetch %s: %v", url, err)
			continue
		}
		if n.store.PrependDay(day.Images, url, day.Label, day.Date) == 0 {
			continue
		}
		earliest, haveEarliest = n.store.EarliestTime()
	}
}

// coverForward appends later days until the last loaded frame reaches
// target or no further day can be added.
func (n *Navigator) coverForward(ctx context.Context, target time.Time) {
	if n.store.Len() == 0 {
		return
	}
	for ctx.Err() == nil {
		latest, ok := n.store.LatestTime()
		if !ok || !target.After(latest) {
			return
		}
		if n.appendNextDay(ctx) == 0 {
			return
		}
	}
}

// Previous steps one frame back, crossing into the previous day at the
// first frame.
func (n *Navigator) Previous(ctx context.Context) error {
	n.store.ClearBoundary()
	if c := n.store.Cursor(); n.store.Len() > 0 && c > 0 {
		n.store.Show(c-1, true)
		return nil
	}

	if err := n.store.BeginMutation(ctx); err != nil {
		return fmt.Errorf("previous: %w", err)
	}
	defer n.store.EndMutation()

	if added := n.prependPreviousDay(ctx); added > 0 {
		n.store.Show(added-1, true)
	}
	return nil
}

// Next steps one frame forward. A pending update is promoted instead.
func (n *Navigator) Next(context.Context) error {
	n.store.ClearBoundary()
	if n.store.Promote() {
		return nil
	}
	if c := n.store.Cursor(); c < n.store.Len()-1 {
		n.store.Show(c+1, true)
	}
	return nil
}

// Newest shows the last frame, promoting a pending update first.
func (n *Navigator) Newest(context.Context) error {
	n.store.ClearBoundary()
	if n.store.Promote() {
		return nil
	}
	n.store.Show(n.store.Len()-1, true)
	return nil
}

// Oldest shows the first loaded frame.
func (n *Navigator) Oldest(context.Context) error {
	n.store.ClearBoundary()
	n.store.Show(0, true)
	return nil
}

// PrependPreviousDay loads the day before the earliest loaded frame and
// returns the number of frames added.
func (n *Navigator) PrependPreviousDay(ctx context.Context) (int, error) {
	if err := n.store.BeginMutation(ctx); err != nil {
		return 0, fmt.Errorf("prepend previous day: %w", err)
	}
	defer n.store.EndMutation()
	return n.prependPreviousDay(ctx), nil
}

// AppendNextDay loads the day after the latest loaded frame and returns the
// number of frames added.
func (n *Navigator) AppendNextDay(ctx context.Context) (int, error) {
	if err := n.store.BeginMutation(ctx); err != nil {
		return 0, fmt.Errorf("append next day: %w", err)
	}
	defer n.store.EndMutation()
	return n.appendNextDay(ctx), nil
}

func (n *Navigator) prependPreviousDay(ctx context.Context) int {
	from := n.edgeURL(n.store.First())
	url, ok := n.stepURL(from, -1)
	if !ok {
		return 0
	}
	day, err := n.days.FetchDay(ctx, url)
	if err != nil {
		log.Printf("navigator: fetch previous day %s: %v", url, err)
		return 0
	}
	return n.store.PrependDay(day.Images, url, day.Label, day.Date)
}

func (n *Navigator) appendNextDay(ctx context.Context) int {
	from := n.edgeURL(n.store.Last())
	url, ok := n.stepURL(from, 1)
	if !ok {
		return 0
	}
	day, err := n.days.FetchDay(ctx, url)
	if err != nil {
		log.Printf("navigator: fetch next day %s: %v", url, err)
		return 0
	}
	return n.store.AppendDay(day.Images, url, day.Label, day.Date)
}

// edgeURL picks the manifest a day step starts from: the edge frame's own
// manifest, else the session manifest.
func (n *Navigator) edgeURL(d timeline.Descriptor, ok bool) string {
	if ok && d.ManifestURL != "" {
		return d.ManifestURL
	}
	return n.store.ManifestURL()
}

// stepURL returns the manifest URL days away from the manifest at from.
func (n *Navigator) stepURL(from string, days int) (string, bool) {
	layout, date, err := archive.ParseManifestURL(from)
	if err != nil {
		if n.layout.IsZero() {
			return "", false
		}
		layout, date = n.layout, n.now()
	}
	url := layout.ManifestURL(date.AddDate(0, 0, days))
	if url == from {
		return "", false
	}
	return url, true
}

// sessionDay returns midnight of the session manifest's day, or the clock
// when the session URL does not follow the archive layout.
func (n *Navigator) sessionDay() time.Time {
	_, date, err := archive.ParseManifestURL(n.store.ManifestURL())
	if err != nil {
		return n.now()
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, n.store.Location())
}

func (n *Navigator) layoutFor(d timeline.Descriptor, ok bool) archive.Layout {
	if l, _, err := archive.ParseManifestURL(n.edgeURL(d, ok)); err == nil {
		return l
	}
	return n.layout
}
