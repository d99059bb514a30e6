package timeline

import "time"

// Mode selects the boundary granularity of a jump.
type Mode string

const (
	Mode12h Mode = "12h" // midnight and noon
	Mode24h Mode = "24h" // one day from the nearest 12h boundary
)

// Direction of a boundary jump.
type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// BoundaryState memoizes the target of the last boundary jump so repeated
// jumps walk boundary to boundary instead of re-snapping to the same one.
type BoundaryState struct {
	Target    time.Time
	Mode      Mode
	Direction Direction
	SetAt     time.Time
}
