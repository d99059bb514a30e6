package timeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/lookout/internal/archive"
)

const sessionURL = "https://a.example/2024/03/01/cam.json"

func images(hours ...string) []archive.Image {
	out := make([]archive.Image, len(hours))
	for i, h := range hours {
		out[i] = archive.Image{Hour: archive.Text(h), Src: h + ".jpg"}
	}
	return out
}

func hourSeq(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%02d00", i)
	}
	return out
}

func day(n int) archive.Day {
	return archive.Day{Label: "Cam", Date: "2024-03-01", Images: images(hourSeq(n)...)}
}

type stubSource struct {
	day archive.Day
	err error
}

func (s stubSource) FetchDay(context.Context, string) (archive.Day, error) {
	return s.day, s.err
}

func TestStore_LoadSetsCursorToNewest(t *testing.T) {
	s := NewStore(time.UTC)
	require.NoError(t, s.Load(context.Background(), stubSource{day: day(5)}, sessionURL))

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 4, s.Cursor())
	assert.Equal(t, sessionURL, s.ManifestURL())

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, sessionURL, cur.ManifestURL)
	assert.Equal(t, "2024-03-01", cur.ManifestDate)
	assert.Equal(t, "Cam", cur.ManifestLabel)
}

func TestStore_LoadFailureLeavesStateUntouched(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(3))

	err := s.Load(context.Background(), stubSource{err: errors.New("boom")}, "https://a.example/other.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load manifest")
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, sessionURL, s.ManifestURL())
}

func TestStore_EmptyManifestLoadsEmptyTimeline(t *testing.T) {
	var s Store
	s.Reset(sessionURL, archive.Day{})

	assert.Equal(t, 0, s.Len())
	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.Show(3, true))
	snap := s.Snapshot()
	assert.False(t, snap.HasCurrent)
	assert.False(t, snap.HasPrev)
	assert.False(t, snap.HasNext)
}

func TestStore_CursorStaysInRange(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(4))

	for _, i := range []int{-10, -1, 0, 2, 3, 4, 99} {
		s.SetCursor(i)
		c := s.Cursor()
		assert.GreaterOrEqual(t, c, 0, "SetCursor(%d)", i)
		assert.Less(t, c, s.Len(), "SetCursor(%d)", i)
	}
}

func TestStore_PrependAndAppendKeepOrderAndTags(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(2))
	s.SetCursor(0)

	prevURL := "https://a.example/2024/02/29/cam.json"
	nextURL := "https://a.example/2024/03/02/cam.json"

	added := s.PrependDay(images("2300", "2355"), prevURL, "Cam", "2024-02-29")
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, s.Cursor(), "cursor keeps pointing at the same frame")

	assert.Equal(t, 1, s.AppendDay(images("0005"), nextURL, "Cam", "2024-03-02"))
	assert.Equal(t, 0, s.AppendDay(nil, nextURL, "Cam", "2024-03-02"))

	entries := s.Entries()
	require.Len(t, entries, 5)
	wantURLs := []string{prevURL, prevURL, sessionURL, sessionURL, nextURL}
	for i, d := range entries {
		assert.Equal(t, wantURLs[i], d.ManifestURL, "entry %d", i)
	}

	var last time.Time
	for i, d := range entries {
		dt, ok := ParseTime(d, time.UTC)
		require.True(t, ok)
		if i > 0 {
			assert.True(t, dt.After(last), "entry %d out of order", i)
		}
		last = dt
	}
}

func TestStore_ReconcileAppliesWhenOnNewest(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(5))
	require.Equal(t, 4, s.Cursor())

	got := s.Reconcile(sessionURL, day(7))

	assert.Equal(t, Applied, got)
	assert.Equal(t, 7, s.Len())
	assert.Equal(t, 6, s.Cursor())
	_, pending := s.Pending()
	assert.False(t, pending)
	assert.False(t, s.Snapshot().UpdateAvailable)
}

func TestStore_ReconcileDefersWhileBrowsing(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(5))
	s.SetCursor(2)

	got := s.Reconcile(sessionURL, day(7))

	assert.Equal(t, Deferred, got)
	assert.Equal(t, 5, s.Len(), "timeline unchanged")
	assert.Equal(t, 2, s.Cursor())
	p, ok := s.Pending()
	require.True(t, ok)
	assert.Len(t, p.Entries, 7)
	assert.True(t, s.Snapshot().UpdateAvailable)
	assert.Equal(t, 7, s.Snapshot().PendingLen)
}

func TestStore_ReconcileUnchangedCount(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(5))
	rev := s.Snapshot().Revision

	assert.Equal(t, Unchanged, s.Reconcile(sessionURL, day(5)))
	assert.Equal(t, Unchanged, s.Reconcile(sessionURL, archive.Day{}))
	assert.Equal(t, rev, s.Snapshot().Revision)
}

func TestStore_ReconcileOnlyReplacesSessionRun(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(3))
	prevURL := "https://a.example/2024/02/29/cam.json"
	s.PrependDay(images("2300", "2355"), prevURL, "Cam", "2024-02-29")

	require.Equal(t, Applied, s.Reconcile(sessionURL, day(4)))

	entries := s.Entries()
	require.Len(t, entries, 6)
	assert.Equal(t, prevURL, entries[0].ManifestURL)
	assert.Equal(t, prevURL, entries[1].ManifestURL)
	assert.Equal(t, sessionURL, entries[5].ManifestURL)
	assert.Equal(t, 5, s.Cursor())
}

func TestStore_PromoteIsIdempotent(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(5))
	s.SetCursor(1)
	s.SetBoundary(BoundaryState{Mode: Mode12h, Direction: Backward})
	require.Equal(t, Deferred, s.Reconcile(sessionURL, day(7)))

	require.True(t, s.Promote())
	assert.Equal(t, 7, s.Len())
	assert.Equal(t, 6, s.Cursor())
	assert.False(t, s.Snapshot().UpdateAvailable)
	_, hasBoundary := s.Boundary()
	assert.False(t, hasBoundary)

	rev := s.Snapshot().Revision
	assert.False(t, s.Promote())
	assert.Equal(t, 7, s.Len())
	assert.Equal(t, rev, s.Snapshot().Revision)
}

func TestStore_ShowHoldsAutomaticJumpWhilePending(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(5))
	s.SetCursor(2)
	require.Equal(t, Deferred, s.Reconcile(sessionURL, day(7)))

	assert.False(t, s.Show(4, false))
	assert.Equal(t, 2, s.Cursor())

	assert.True(t, s.Show(3, false))
	assert.Equal(t, 3, s.Cursor())

	assert.True(t, s.Show(4, true))
	assert.Equal(t, 4, s.Cursor())
	_, pending := s.Pending()
	assert.False(t, pending)
	assert.False(t, s.Snapshot().UpdateAvailable)
}

func TestStore_IndicatorOnlyForGrowthBeyondNotified(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(5))
	s.SetCursor(0)

	// Shrinking is held back without announcing anything new.
	require.Equal(t, Deferred, s.Reconcile(sessionURL, day(4)))
	assert.False(t, s.Snapshot().UpdateAvailable)

	require.Equal(t, Deferred, s.Reconcile(sessionURL, day(6)))
	assert.True(t, s.Snapshot().UpdateAvailable)
}

func TestStore_FirstAtOrAfter(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, archive.Day{Label: "Cam", Date: "2024-03-01", Images: images("0000", "1155", "1205", "1800")})

	at := func(h, m int) time.Time { return time.Date(2024, time.March, 1, h, m, 0, 0, time.UTC) }

	assert.Equal(t, 0, s.FirstAtOrAfter(at(0, 0)))
	assert.Equal(t, 2, s.FirstAtOrAfter(at(12, 0)))
	assert.Equal(t, 3, s.FirstAtOrAfter(at(18, 0)))
	assert.Equal(t, -1, s.FirstAtOrAfter(at(18, 1)))

	earliest, ok := s.EarliestTime()
	require.True(t, ok)
	assert.True(t, earliest.Equal(at(0, 0)))
	latest, ok := s.LatestTime()
	require.True(t, ok)
	assert.True(t, latest.Equal(at(18, 0)))
}

func TestStore_NeighborsAtEdges(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(3))

	assert.Len(t, s.Neighbors(), 1)
	s.SetCursor(1)
	assert.Len(t, s.Neighbors(), 2)
	s.SetCursor(0)
	n := s.Neighbors()
	require.Len(t, n, 1)
	assert.Equal(t, archive.Text("0100"), n[0].Hour)
}

func TestStore_RecordPollTracksFailures(t *testing.T) {
	var s Store

	s.RecordPoll(errors.New("dial tcp: refused"))
	assert.False(t, s.Snapshot().IsOffline())
	s.RecordPoll(errors.New("dial tcp: refused"))
	snap := s.Snapshot()
	assert.True(t, snap.IsOffline())
	assert.EqualError(t, snap.LastPollError, "dial tcp: refused")
	assert.False(t, snap.LastPolled.IsZero())

	s.RecordPoll(nil)
	snap = s.Snapshot()
	assert.False(t, snap.IsOffline())
	assert.NoError(t, snap.LastPollError)
}

func TestStore_MutationTokenIsExclusive(t *testing.T) {
	var s Store

	require.NoError(t, s.BeginMutation(context.Background()))
	assert.False(t, s.TryBeginMutation())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, s.BeginMutation(ctx))

	s.EndMutation()
	assert.True(t, s.TryBeginMutation())
	s.EndMutation()
}

func TestStore_LoadWaitsForMutationToken(t *testing.T) {
	s := NewStore(time.UTC)
	s.Reset(sessionURL, day(3))
	require.NoError(t, s.BeginMutation(context.Background()))
	defer s.EndMutation()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.Load(ctx, stubSource{day: day(5)}, "https://a.example/2024/06/10/other.json")
	require.Error(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, sessionURL, s.ManifestURL())
}
