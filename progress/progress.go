// Package progress provides a lightweight tracker that keeps aggregated
// task counters (spawned, completed, aborted, …) for a single runtime
// run.  The tracker instance lives in the environment – the fork
// machinery updates the counters via the Delta helper without requiring
// a global registry.

package progress

import (
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the fork
// machinery.  The fields are signed and therefore can be either positive
// (increment) or negative (decrement).
type Delta struct {
	Spawned   int
	Running   int
	Completed int
	Aborted   int
	Cancelled int
}

// Progress keeps aggregated task counters for a root procedure and all
// its descendants.  It is safe for concurrent use.
type Progress struct {
	// Identification – informative only, filled when the root starts.
	RootTaskID int64
	Name       string
	StartedAt  time.Time

	// Counters – modified via Update().
	SpawnedTasks   int
	RunningTasks   int
	CompletedTasks int
	AbortedTasks   int
	CancelledTasks int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta to the tracker.  It is safe to call
// from multiple goroutines.  If an onChange callback has been registered
// it will be invoked with a copy of the updated tracker outside the
// critical section so that the callback can perform slow operations
// (e.g. JSON encoding, I/O) without blocking runtime internals.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()

	p.SpawnedTasks += d.Spawned
	p.RunningTasks += d.Running
	p.CompletedTasks += d.Completed
	p.AbortedTasks += d.Aborted
	p.CancelledTasks += d.Cancelled

	// Make a value-copy for the callback while we still hold the lock to
	// avoid seeing partially updated counters.
	snapshot := *p
	cb := p.onChange

	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only
// inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return *p
}

// OnChange registers a callback invoked after every Update.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

// New creates a tracker for the given root procedure name.
func New(name string) *Progress {
	return &Progress{Name: name, StartedAt: time.Now()}
}
