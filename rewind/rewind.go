// Package rewind keeps a history of CD reader states so the drive can be
// wound back together with the rest of the emulation.
package rewind

import (
	"github.com/rabidaudio/megacd/cdreader"
)

// Capturer produces the states kept by a Ring. *cdreader.Reader implements
// Capturer.
type Capturer interface {
	CaptureState() cdreader.StateBackup
}

// Restorer accepts the states kept by a Ring. *cdreader.Reader implements
// Restorer.
type Restorer interface {
	RestoreState(cdreader.StateBackup) bool
}

// Ring is a fixed size history of states. When full, pushing a state forgets
// the oldest one.
type Ring struct {
	// circular array of entries. start is the oldest entry, count the number
	// of entries in use
	entries []cdreader.StateBackup
	start   int
	count   int
}

// NewRing returns a ring holding up to depth states. A depth below one is
// treated as one.
func NewRing(depth int) *Ring {
	return &Ring{entries: make([]cdreader.StateBackup, max(depth, 1))}
}

func (r *Ring) Len() int {
	return r.count
}

func (r *Ring) Cap() int {
	return len(r.entries)
}

// Reset forgets every entry.
func (r *Ring) Reset() {
	r.start = 0
	r.count = 0
}

// Push adds a state as the most recent entry.
func (r *Ring) Push(s cdreader.StateBackup) {
	if r.count == len(r.entries) {
		r.entries[r.start] = s
		r.start = (r.start + 1) % len(r.entries)
		return
	}
	r.entries[(r.start+r.count)%len(r.entries)] = s
	r.count++
}

// Capture pushes the current state of c. It is meant to be called once per
// emulated frame.
func (r *Ring) Capture(c Capturer) {
	r.Push(c.CaptureState())
}

// newest returns the index of the entry steps back from the most recent one.
func (r *Ring) newest(steps int) int {
	return (r.start + r.count - 1 - steps) % len(r.entries)
}

// Peek returns the most recent entry.
func (r *Ring) Peek() (cdreader.StateBackup, bool) {
	if r.count == 0 {
		return cdreader.StateBackup{}, false
	}
	return r.entries[r.newest(0)], true
}

// Pop removes and returns the most recent entry.
func (r *Ring) Pop() (cdreader.StateBackup, bool) {
	s, ok := r.Peek()
	if ok {
		r.count--
	}
	return s, ok
}

// Rewind restores the state pushed the given number of steps ago, where one
// step is the most recent entry. Entries newer than the restored one are
// forgotten; the restored one stays as the most recent entry.
//
// If there are not enough entries or the state is rejected, the ring is left
// unchanged and false is returned.
func (r *Ring) Rewind(target Restorer, steps int) bool {
	if steps < 1 || steps > r.count {
		return false
	}
	if !target.RestoreState(r.entries[r.newest(steps-1)]) {
		return false
	}
	r.count -= steps - 1
	return true
}
