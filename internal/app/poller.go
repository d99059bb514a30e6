package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/lookout/internal/timeline"
)

const defaultPollInterval = 30 * time.Second

// StartPoller launches a background goroutine that re-fetches the session
// manifest at a fixed cadence and reconciles it into the store. It returns
// immediately. The first poll happens one interval after start.
func StartPoller(ctx context.Context, store *timeline.Store, days timeline.DaySource, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			poll(ctx, store, days)
		}
	}()
}

// poll runs one cycle. Failures are recorded on the store and logged, never
// returned: a flaky archive only delays updates.
func poll(ctx context.Context, store *timeline.Store, days timeline.DaySource) timeline.Reconciliation {
	url := store.ManifestURL()
	if url == "" {
		return timeline.Unchanged
	}

	day, err := days.FetchDay(ctx, url)
	store.RecordPoll(err)
	if err != nil {
		log.Printf("manifest poll failed: %v", err)
		return timeline.Unchanged
	}

	if !store.TryBeginMutation() {
		log.Printf("manifest poll skipped: navigation in progress")
		return timeline.Unchanged
	}
	defer store.EndMutation()

	// A different manifest may have been loaded while we were fetching.
	if store.ManifestURL() != url {
		return timeline.Unchanged
	}
	res := store.Reconcile(url, day)
	if res != timeline.Unchanged {
		log.Printf("manifest poll: %d images, %s", len(day.Images), res)
	}
	return res
}
