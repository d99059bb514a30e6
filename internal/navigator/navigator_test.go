package navigator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/lookout/internal/archive"
	"github.com/five82/lookout/internal/timeline"
)

var testLayout = archive.Layout{Origin: "https://a.example", Camera: "cam"}

func dayURL(y int, m time.Month, d int) string {
	return testLayout.ManifestURL(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func mkDay(date string, hours ...string) archive.Day {
	imgs := make([]archive.Image, len(hours))
	for i, h := range hours {
		imgs[i] = archive.Image{Hour: archive.Text(h), Src: h + ".jpg"}
	}
	return archive.Day{Label: "Cam", Date: date, Images: imgs}
}

// fakeArchive serves days by URL; unknown URLs fail like a 404.
type fakeArchive struct {
	mu    sync.Mutex
	days  map[string]archive.Day
	empty bool // unknown URLs return an empty day instead of failing
	calls []string
}

func (f *fakeArchive) FetchDay(_ context.Context, url string) (archive.Day, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if d, ok := f.days[url]; ok {
		return d, nil
	}
	if f.empty {
		return archive.Day{}, nil
	}
	return archive.Day{}, &archive.FetchError{URL: url, StatusCode: 404}
}

func (f *fakeArchive) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func setup(t *testing.T, fa *fakeArchive, session archive.Day) (*Navigator, *timeline.Store) {
	t.Helper()
	store := timeline.NewStore(time.UTC)
	store.Reset(dayURL(2024, time.March, 1), session)
	clock := func() time.Time { return at(2024, time.March, 1, 15, 0) }
	return New(store, fa, WithLayout(testLayout), WithClock(clock)), store
}

func currentTime(t *testing.T, s *timeline.Store) time.Time {
	t.Helper()
	dt, ok := s.CurrentTime()
	require.True(t, ok)
	return dt
}

func TestJump_BackwardGivesUpAfterMaxBackDays(t *testing.T) {
	fa := &fakeArchive{empty: true}
	nav, store := setup(t, fa, mkDay("2024-03-01", "0900"))

	idx, err := nav.Jump(context.Background(), timeline.Backward, timeline.Mode24h)
	require.NoError(t, err)

	assert.Len(t, fa.Calls(), DefaultMaxBackDays)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, store.Len())
	b, ok := store.Boundary()
	require.True(t, ok)
	assert.Equal(t, at(2024, time.February, 29, 12, 0), b.Target)
}

func TestJump_BackwardSkipsGapsUntilCovered(t *testing.T) {
	fa := &fakeArchive{days: map[string]archive.Day{
		dayURL(2024, time.February, 28): mkDay("2024-02-28"),
		dayURL(2024, time.February, 27): mkDay("2024-02-27", "1200"),
	}}
	nav, store := setup(t, fa, mkDay("2024-03-01", "0100", "0200"))
	store.SetCursor(0)

	_, err := nav.Jump(context.Background(), timeline.Backward, timeline.Mode24h)
	require.NoError(t, err)

	assert.Equal(t, []string{
		dayURL(2024, time.February, 29),
		dayURL(2024, time.February, 28),
		dayURL(2024, time.February, 27),
	}, fa.Calls())
	assert.Equal(t, 3, store.Len())
	first, _ := store.First()
	assert.Equal(t, dayURL(2024, time.February, 27), first.ManifestURL)
	assert.Equal(t, at(2024, time.March, 1, 1, 0), currentTime(t, store))
}

// gatedArchive blocks FetchDay for one URL until release is closed.
type gatedArchive struct {
	*fakeArchive
	gate    string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedArchive) FetchDay(ctx context.Context, url string) (archive.Day, error) {
	if url == g.gate {
		close(g.entered)
		<-g.release
	}
	return g.fakeArchive.FetchDay(ctx, url)
}

func TestJump_LoadWaitsForRunningJump(t *testing.T) {
	other := "https://b.example/2024/06/10/other.json"
	fa := &gatedArchive{
		fakeArchive: &fakeArchive{days: map[string]archive.Day{
			dayURL(2024, time.February, 29): mkDay("2024-02-29", "1200"),
			other:                           mkDay("2024-06-10", "0800", "0900"),
		}},
		gate:    dayURL(2024, time.February, 29),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := timeline.NewStore(time.UTC)
	store.Reset(dayURL(2024, time.March, 1), mkDay("2024-03-01", "0100", "0200"))
	store.SetCursor(0)
	nav := New(store, fa, WithLayout(testLayout), WithClock(func() time.Time { return at(2024, time.March, 1, 15, 0) }))

	jumped := make(chan error, 1)
	go func() {
		_, err := nav.Jump(context.Background(), timeline.Backward, timeline.Mode24h)
		jumped <- err
	}()
	<-fa.entered

	loaded := make(chan error, 1)
	go func() {
		loaded <- store.Load(context.Background(), fa, other)
	}()

	select {
	case <-loaded:
		t.Fatal("load replaced the timeline while a jump was extending it")
	case <-time.After(20 * time.Millisecond):
	}

	close(fa.release)
	require.NoError(t, <-jumped)
	require.NoError(t, <-loaded)

	assert.Equal(t, other, store.ManifestURL())
	require.Equal(t, 2, store.Len())
	for _, d := range store.Entries() {
		assert.Equal(t, other, d.ManifestURL)
	}
	assert.Equal(t, 1, store.Cursor())
	_, hasBoundary := store.Boundary()
	assert.False(t, hasBoundary)
}

func TestJump_BackwardFromEmptySessionStartsAtSessionDay(t *testing.T) {
	fa := &fakeArchive{days: map[string]archive.Day{
		dayURL(2024, time.February, 29): mkDay("2024-02-29", "1200"),
	}}
	store := timeline.NewStore(time.UTC)
	store.Reset(dayURL(2024, time.March, 1), archive.Day{Label: "Cam", Date: "2024-03-01"})
	nav := New(store, fa, WithLayout(testLayout), WithClock(func() time.Time { return at(2024, time.June, 10, 9, 0) }))

	_, err := nav.Jump(context.Background(), timeline.Backward, timeline.Mode24h)
	require.NoError(t, err)

	calls := fa.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, dayURL(2024, time.February, 29), calls[0])
	first, ok := store.First()
	require.True(t, ok)
	assert.Equal(t, dayURL(2024, time.February, 29), first.ManifestURL)
}

func TestJump_RepeatedBackwardWalksBoundaries(t *testing.T) {
	fa := &fakeArchive{days: map[string]archive.Day{
		dayURL(2024, time.February, 29): mkDay("2024-02-29", "0600", "1800"),
	}}
	nav, store := setup(t, fa, mkDay("2024-03-01", "0100", "1300"))
	ctx := context.Background()

	_, err := nav.Jump(ctx, timeline.Backward, timeline.Mode12h)
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.March, 1, 13, 0), currentTime(t, store))

	_, err = nav.Jump(ctx, timeline.Backward, timeline.Mode12h)
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.March, 1, 1, 0), currentTime(t, store))
	assert.Equal(t, []string{dayURL(2024, time.February, 29)}, fa.Calls(), "midnight is before the first frame")

	_, err = nav.Jump(ctx, timeline.Backward, timeline.Mode12h)
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.February, 29, 18, 0), currentTime(t, store))
	assert.Equal(t, 4, store.Len())
	assert.Len(t, fa.Calls(), 1)
}

func TestJump_ForwardStopsOnEmptyDay(t *testing.T) {
	fa := &fakeArchive{empty: true}
	nav, store := setup(t, fa, mkDay("2024-03-01", "0100", "0900"))
	store.SetCursor(0)

	idx, err := nav.Jump(context.Background(), timeline.Forward, timeline.Mode12h)
	require.NoError(t, err)

	assert.Equal(t, []string{dayURL(2024, time.March, 2)}, fa.Calls())
	assert.Equal(t, 1, idx, "uncovered forward target clamps to the last frame")
	assert.Equal(t, 2, store.Len())
}

func TestJump_ForwardAppendsNextDay(t *testing.T) {
	fa := &fakeArchive{days: map[string]archive.Day{
		dayURL(2024, time.March, 2): mkDay("2024-03-02", "0030", "1300"),
	}}
	nav, store := setup(t, fa, mkDay("2024-03-01", "0100", "0900"))

	_, err := nav.Jump(context.Background(), timeline.Forward, timeline.Mode24h)
	require.NoError(t, err)

	assert.Equal(t, 4, store.Len())
	assert.Equal(t, at(2024, time.March, 2, 13, 0), currentTime(t, store))
}

func TestPrevious_AtFirstFrameLoadsPreviousDay(t *testing.T) {
	fa := &fakeArchive{days: map[string]archive.Day{
		dayURL(2024, time.February, 29): mkDay("2024-02-29", "2200", "2300"),
	}}
	nav, store := setup(t, fa, mkDay("2024-03-01", "0100", "0200"))
	store.SetCursor(0)
	store.SetBoundary(timeline.BoundaryState{Mode: timeline.Mode12h})

	require.NoError(t, nav.Previous(context.Background()))

	assert.Equal(t, 4, store.Len())
	assert.Equal(t, 1, store.Cursor())
	assert.Equal(t, at(2024, time.February, 29, 23, 0), currentTime(t, store))
	_, ok := store.Boundary()
	assert.False(t, ok, "single steps clear the boundary memo")
}

func TestPrevious_AtFirstFrameWithoutPreviousDay(t *testing.T) {
	fa := &fakeArchive{}
	nav, store := setup(t, fa, mkDay("2024-03-01", "0100", "0200"))
	store.SetCursor(0)

	require.NoError(t, nav.Previous(context.Background()))
	assert.Equal(t, 0, store.Cursor())
	assert.Equal(t, 2, store.Len())
}

func TestNext_PromotesPendingUpdate(t *testing.T) {
	fa := &fakeArchive{}
	nav, store := setup(t, fa, mkDay("2024-03-01", "0100", "0200", "0300"))
	store.SetCursor(0)
	require.Equal(t, timeline.Deferred, store.Reconcile(dayURL(2024, time.March, 1), mkDay("2024-03-01", "0100", "0200", "0300", "0400")))

	require.NoError(t, nav.Next(context.Background()))
	assert.Equal(t, 4, store.Len())
	assert.Equal(t, 3, store.Cursor())

	require.NoError(t, nav.Next(context.Background()))
	assert.Equal(t, 3, store.Cursor(), "next at the newest frame stays put")
}

func TestOldestAndNewest(t *testing.T) {
	fa := &fakeArchive{}
	nav, store := setup(t, fa, mkDay("2024-03-01", "0100", "0200", "0300"))
	ctx := context.Background()

	require.NoError(t, nav.Oldest(ctx))
	assert.Equal(t, 0, store.Cursor())
	require.NoError(t, nav.Newest(ctx))
	assert.Equal(t, 2, store.Cursor())
}

func TestDaySteps_UseEdgeManifests(t *testing.T) {
	fa := &fakeArchive{days: map[string]archive.Day{
		dayURL(2024, time.February, 29): mkDay("2024-02-29", "1200"),
		dayURL(2024, time.February, 28): mkDay("2024-02-28", "1200"),
		dayURL(2024, time.March, 2):     mkDay("2024-03-02", "1200"),
	}}
	nav, store := setup(t, fa, mkDay("2024-03-01", "1200"))
	ctx := context.Background()

	n, err := nav.PrependPreviousDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = nav.PrependPreviousDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = nav.AppendNextDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got := make([]string, 0, store.Len())
	for _, d := range store.Entries() {
		got = append(got, d.ManifestDate)
	}
	assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, got)
}

func TestJump_RespectsCancelledContext(t *testing.T) {
	fa := &fakeArchive{}
	nav, store := setup(t, fa, mkDay("2024-03-01", "0100"))

	require.NoError(t, store.BeginMutation(context.Background()))
	defer store.EndMutation()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := nav.Jump(ctx, timeline.Backward, timeline.Mode12h)
	assert.Error(t, err)
	assert.Empty(t, fa.Calls())
}
