// Package timeline holds the ordered multi-day snapshot sequence the viewer
// navigates, together with the cursor and update bookkeeping.
//
// # Overview
//
// Snapshots are loaded one archive day at a time. Every image is tagged
// with the manifest it came from (Descriptor), so a frame's capture time can
// be reconstructed from its manifest date and HHMM hour even after several
// days have been stitched together:
//
//	 day N-1 (prepended)    day N (session)       day N+1 (appended)
//	┌───────────────────┐ ┌──────────────────┐ ┌──────────────────┐
//	│ 0000 0005 … 2355  │ │ 0000 … 1210  ▲   │ │ 0000 …           │
//	└───────────────────┘ └──────────────┼───┘ └──────────────────┘
//	                                  cursor
//
// # Components
//
//   - store.go: Store, Snapshot, poll reconciliation and the mutation token
//   - descriptor.go: Descriptor tagging, capture time parsing and captions
//   - boundary.go: Mode, Direction and the memoized BoundaryState
//
// # Update Model
//
// The background poller re-fetches the session manifest. When its image
// count changes, Reconcile either applies the new set right away (the user
// is on the newest frame) or parks it as a PendingUpdate and raises the
// new-images indicator. Promote applies the parked set when the user steps
// forward. Show never moves an automatic render onto the newest frame while
// an update is pending.
//
// # Concurrency Model
//
// Store methods are individually atomic behind a sync.RWMutex. Operations
// that interleave network fetches with timeline edits (manifest loads,
// boundary jumps, day extension, poll reconciliation) serialize on a
// one-slot semaphore:
//
//	if err := store.BeginMutation(ctx); err != nil {
//	    return err
//	}
//	defer store.EndMutation()
//
// The poller uses TryBeginMutation and simply skips a cycle when a
// navigation is in flight.
package timeline
