package resolve

import "sync/atomic"

// Slot hands out increasing tokens for one display position. Only the
// request holding the latest token may publish its result.
type Slot struct {
	token atomic.Uint64
}

// Begin starts a new request and supersedes all earlier ones.
func (s *Slot) Begin() uint64 {
	return s.token.Add(1)
}

// Current reports whether token is still the latest.
func (s *Slot) Current(token uint64) bool {
	return s.token.Load() == token
}
