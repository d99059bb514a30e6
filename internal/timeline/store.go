package timeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/five82/lookout/internal/archive"
)

// DaySource retrieves the first day entry of a manifest.
type DaySource interface {
	FetchDay(ctx context.Context, manifestURL string) (archive.Day, error)
}

// PendingUpdate is a newer image set for the session manifest that was held
// back because the user is browsing earlier frames.
type PendingUpdate struct {
	ManifestURL string
	Entries     []Descriptor
}

// Snapshot represents the latest timeline state available to the UI.
type Snapshot struct {
	ManifestURL         string
	Current             Descriptor
	HasCurrent          bool
	Cursor              int
	Len                 int
	HasPrev             bool
	HasNext             bool
	UpdateAvailable     bool
	PendingLen          int
	Revision            uint64
	LastPolled          time.Time
	LastPollError       error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the archive has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store holds the ordered multi-day image timeline and the view cursor.
//
// The timeline only grows by prepending older days or appending newer ones;
// poll results replace the session manifest's own run in place. Single
// operations are atomic. Multi-step sequences that suspend on the network
// (boundary extension, poll reconciliation) additionally hold the mutation
// token so they do not interleave.
type Store struct {
	mu  sync.RWMutex
	loc *time.Location

	entries     []Descriptor
	cursor      int
	manifestURL string

	boundary        *BoundaryState
	pending         *PendingUpdate
	updateAvailable bool
	lastNotified    int
	revision        uint64

	lastPolled          time.Time
	lastPollErr         error
	consecutiveFailures int

	semOnce  sync.Once
	mutation *semaphore.Weighted
}

// NewStore returns an empty store that interprets capture hours in loc.
// A zero Store is also ready to use and reads hours in time.Local.
func NewStore(loc *time.Location) *Store {
	return &Store{loc: loc}
}

// Location returns the time zone used to interpret capture hours.
func (s *Store) Location() *time.Location {
	if s.loc == nil {
		return time.Local
	}
	return s.loc
}

// Load fetches manifestURL and replaces the timeline with its images.
// Nothing changes when the fetch fails. Load holds the mutation token, so it
// waits for a running jump or day step to finish before replacing anything.
func (s *Store) Load(ctx context.Context, src DaySource, manifestURL string) error {
	if err := s.BeginMutation(ctx); err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	defer s.EndMutation()

	day, err := src.FetchDay(ctx, manifestURL)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	s.Reset(manifestURL, day)
	return nil
}

// Reset replaces the timeline with day, makes manifestURL the session
// manifest, moves the cursor to the newest frame and clears boundary state
// and any pending update.
func (s *Store) Reset(manifestURL string, day archive.Day) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = Tag(day.Images, manifestURL, day.Label, day.Date)
	s.cursor = max(len(s.entries)-1, 0)
	s.manifestURL = manifestURL
	s.boundary = nil
	s.pending = nil
	s.updateAvailable = false
	s.lastNotified = len(s.entries)
	s.revision++
}

// PrependDay tags images and places them before the existing timeline.
// The cursor keeps pointing at the same frame. It returns the number added.
func (s *Store) PrependDay(images []archive.Image, manifestURL, label, date string) int {
	tagged := Tag(images, manifestURL, label, date)
	if len(tagged) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	wasEmpty := len(s.entries) == 0
	s.entries = append(tagged, s.entries...)
	if !wasEmpty {
		s.cursor += len(tagged)
	}
	s.revision++
	return len(tagged)
}

// AppendDay tags images and places them after the existing timeline.
// It returns the number added.
func (s *Store) AppendDay(images []archive.Image, manifestURL, label, date string) int {
	tagged := Tag(images, manifestURL, label, date)
	if len(tagged) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, tagged...)
	s.revision++
	return len(tagged)
}

// SetCursor clamps i to the valid range and moves the cursor there. It is a
// no-op on an empty timeline.
func (s *Store) SetCursor(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return s.cursor
	}
	s.cursor = s.clamp(i)
	s.revision++
	return s.cursor
}

// Show is the display path for every navigation. It clamps i and moves the
// cursor unless a pending update exists, the target is the newest frame and
// the request is not user initiated: automatic re-renders never jump the
// view out from under a browsing user. A user reaching the newest frame is
// considered up to date. Show reports whether the cursor moved.
func (s *Store) Show(i int, user bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return false
	}
	last := len(s.entries) - 1
	target := s.clamp(i)
	if s.pending != nil && target == last && !user {
		return false
	}
	s.cursor = target
	if user && target == last {
		s.lastNotified = s.dayLenLocked(s.manifestURL)
		s.pending = nil
		s.updateAvailable = false
	}
	s.revision++
	return true
}

// Reconciliation is the outcome of applying a poll result.
type Reconciliation int

const (
	Unchanged Reconciliation = iota // same image count as loaded
	Applied                         // user was on the newest frame; timeline replaced
	Deferred                        // user is browsing; held as a pending update
)

func (r Reconciliation) String() string {
	switch r {
	case Applied:
		return "applied"
	case Deferred:
		return "deferred"
	default:
		return "unchanged"
	}
}

// Reconcile compares a freshly polled day against the run loaded from
// manifestURL. A changed count is applied immediately when the cursor sits
// on the newest frame, otherwise it is held as a pending update and the
// new-images indicator is raised once per growth beyond what the user has
// already been told about.
func (s *Store) Reconcile(manifestURL string, day archive.Day) Reconciliation {
	tagged := Tag(day.Images, manifestURL, day.Label, day.Date)

	s.mu.Lock()
	defer s.mu.Unlock()

	// An empty poll result is treated as a transient archive glitch.
	if len(tagged) == 0 || len(tagged) == s.dayLenLocked(manifestURL) {
		return Unchanged
	}

	if len(s.entries) == 0 || s.cursor >= len(s.entries)-1 {
		s.spliceLocked(manifestURL, tagged)
		s.cursor = max(len(s.entries)-1, 0)
		s.pending = nil
		s.updateAvailable = false
		s.lastNotified = len(tagged)
		s.revision++
		return Applied
	}

	s.pending = &PendingUpdate{ManifestURL: manifestURL, Entries: tagged}
	if len(tagged) > s.lastNotified {
		s.updateAvailable = true
	}
	s.revision++
	return Deferred
}

// Promote consumes the pending update: its images replace the session
// manifest's run, the cursor moves to the newest frame and the indicator is
// cleared. It returns false when nothing was pending.
func (s *Store) Promote() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return false
	}
	p := s.pending
	s.spliceLocked(p.ManifestURL, p.Entries)
	s.cursor = max(len(s.entries)-1, 0)
	s.pending = nil
	s.boundary = nil
	s.updateAvailable = false
	s.lastNotified = len(p.Entries)
	s.revision++
	return true
}

// Boundary returns the memoized boundary state, if any.
func (s *Store) Boundary() (BoundaryState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.boundary == nil {
		return BoundaryState{}, false
	}
	return *s.boundary, true
}

// SetBoundary records the target of a boundary jump.
func (s *Store) SetBoundary(b BoundaryState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boundary = &b
}

// ClearBoundary forgets the last boundary jump.
func (s *Store) ClearBoundary() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boundary = nil
}

// RecordPoll notes the outcome of a poll cycle. Errors keep the previous
// data but are recorded for visibility.
func (s *Store) RecordPoll(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastPolled = time.Now()
	if err != nil {
		s.lastPollErr = err
		s.consecutiveFailures++
		return
	}
	s.lastPollErr = nil
	s.consecutiveFailures = 0
}

// Len returns the number of frames in the timeline.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Cursor returns the current index. It is meaningless on an empty timeline.
func (s *Store) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// ManifestURL returns the session manifest, the one polled for updates.
func (s *Store) ManifestURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifestURL
}

// At returns the descriptor at index i.
func (s *Store) At(i int) (Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.entries) {
		return Descriptor{}, false
	}
	return s.entries[i], true
}

// First returns the earliest loaded descriptor.
func (s *Store) First() (Descriptor, bool) {
	return s.At(0)
}

// Last returns the newest loaded descriptor.
func (s *Store) Last() (Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return Descriptor{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Current returns the descriptor under the cursor.
func (s *Store) Current() (Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return Descriptor{}, false
	}
	return s.entries[s.cursor], true
}

// CurrentTime returns the capture time of the frame under the cursor.
func (s *Store) CurrentTime() (time.Time, bool) {
	d, ok := s.Current()
	if !ok {
		return time.Time{}, false
	}
	return ParseTime(d, s.Location())
}

// EarliestTime returns the capture time of the first frame.
func (s *Store) EarliestTime() (time.Time, bool) {
	d, ok := s.First()
	if !ok {
		return time.Time{}, false
	}
	return ParseTime(d, s.Location())
}

// LatestTime returns the capture time of the last frame.
func (s *Store) LatestTime() (time.Time, bool) {
	d, ok := s.Last()
	if !ok {
		return time.Time{}, false
	}
	return ParseTime(d, s.Location())
}

// FirstAtOrAfter returns the index of the first frame captured at or after
// target, scanning in ascending order, or -1. Frames without a parsable
// datetime are skipped.
func (s *Store) FirstAtOrAfter(target time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc := s.Location()
	for i, d := range s.entries {
		dt, ok := ParseTime(d, loc)
		if !ok {
			continue
		}
		if !dt.Before(target) {
			return i
		}
	}
	return -1
}

// Neighbors returns the frames directly before and after the cursor that exist.
func (s *Store) Neighbors() []Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Descriptor
	for _, i := range []int{s.cursor + 1, s.cursor - 1} {
		if i >= 0 && i < len(s.entries) {
			out = append(out, s.entries[i])
		}
	}
	return out
}

// Entries returns a copy of the timeline.
func (s *Store) Entries() []Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries)
}

// Pending returns a copy of the pending update, if any.
func (s *Store) Pending() (PendingUpdate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pending == nil {
		return PendingUpdate{}, false
	}
	return PendingUpdate{ManifestURL: s.pending.ManifestURL, Entries: cloneEntries(s.pending.Entries)}, true
}

// Snapshot returns a copy of the state the UI renders from.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ManifestURL:         s.manifestURL,
		Cursor:              s.cursor,
		Len:                 len(s.entries),
		UpdateAvailable:     s.updateAvailable,
		Revision:            s.revision,
		LastPolled:          s.lastPolled,
		ConsecutiveFailures: s.consecutiveFailures,
	}
	if len(s.entries) > 0 {
		snap.Current = s.entries[s.cursor]
		snap.HasCurrent = true
		snap.HasPrev = s.cursor > 0
		snap.HasNext = s.cursor < len(s.entries)-1
	}
	if s.pending != nil {
		snap.PendingLen = len(s.pending.Entries)
	}
	snap.LastPollError = s.lastPollErr
	return snap
}

// BeginMutation blocks until the caller holds the mutation token or ctx ends.
func (s *Store) BeginMutation(ctx context.Context) error {
	return s.sem().Acquire(ctx, 1)
}

// TryBeginMutation takes the mutation token if it is free.
func (s *Store) TryBeginMutation() bool {
	return s.sem().TryAcquire(1)
}

// EndMutation releases the mutation token.
func (s *Store) EndMutation() {
	s.sem().Release(1)
}

func (s *Store) sem() *semaphore.Weighted {
	s.semOnce.Do(func() {
		s.mutation = semaphore.NewWeighted(1)
	})
	return s.mutation
}

func (s *Store) clamp(i int) int {
	return max(0, min(i, len(s.entries)-1))
}

// dayRangeLocked returns the contiguous run of frames loaded from manifestURL.
func (s *Store) dayRangeLocked(manifestURL string) (start, end int, ok bool) {
	start = -1
	for i, d := range s.entries {
		if d.ManifestURL == manifestURL {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	end = start
	for end+1 < len(s.entries) && s.entries[end+1].ManifestURL == manifestURL {
		end++
	}
	return start, end, true
}

func (s *Store) dayLenLocked(manifestURL string) int {
	start, end, ok := s.dayRangeLocked(manifestURL)
	if !ok {
		return 0
	}
	return end - start + 1
}

// spliceLocked replaces the run loaded from manifestURL with entries, or
// appends them when that manifest is not loaded.
func (s *Store) spliceLocked(manifestURL string, entries []Descriptor) {
	start, end, ok := s.dayRangeLocked(manifestURL)
	if !ok {
		s.entries = append(s.entries, entries...)
		return
	}
	next := make([]Descriptor, 0, len(s.entries)-(end-start+1)+len(entries))
	next = append(next, s.entries[:start]...)
	next = append(next, entries...)
	next = append(next, s.entries[end+1:]...)
	s.entries = next
}

func cloneEntries(entries []Descriptor) []Descriptor {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]Descriptor, len(entries))
	copy(dup, entries)
	return dup
}
