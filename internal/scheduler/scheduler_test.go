package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestScheduler_NestedAsapDefers verifies that work scheduled while a
// thunk is mid-flight only runs once the current thunk returns.
func TestScheduler_NestedAsapDefers(t *testing.T) {
	s := New()
	var log []string
	s.Asap(func() {
		log = append(log, "outer-start")
		s.Asap(func() {
			log = append(log, "inner")
		})
		log = append(log, "outer-end")
	})
	assert.Equal(t, []string{"outer-start", "outer-end", "inner"}, log)
}

func TestScheduler_ImmediatelyFlushesAfter(t *testing.T) {
	s := New()
	var log []string
	s.Immediately(func() {
		s.Asap(func() {
			log = append(log, "queued")
		})
		log = append(log, "immediate")
	})
	assert.Equal(t, []string{"immediate", "queued"}, log)
}

func TestScheduler_SuspendHoldsQueue(t *testing.T) {
	s := New()
	var log []string
	s.Suspend()
	s.Asap(func() {
		log = append(log, "held")
	})
	assert.Empty(t, log)
	s.Flush()
	assert.Equal(t, []string{"held"}, log)
}

// TestScheduler_FIFO verifies queued thunks run in arrival order.
func TestScheduler_FIFO(t *testing.T) {
	s := New()
	var log []int
	s.Asap(func() {
		for i := 0; i < 3; i++ {
			index := i
			s.Asap(func() {
				log = append(log, index)
			})
		}
	})
	assert.Equal(t, []int{0, 1, 2}, log)
}

// TestScheduler_NoOverlap verifies that no queued thunk starts while
// another one is on the stack.
func TestScheduler_NoOverlap(t *testing.T) {
	s := New()
	depth := 0
	maxDepth := 0
	var run func(level int)
	run = func(level int) {
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		if level < 3 {
			s.Asap(func() { run(level + 1) })
		}
		depth--
	}
	s.Asap(func() { run(0) })
	assert.Equal(t, 1, maxDepth)
}
