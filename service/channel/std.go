package channel

import (
	"github.com/viant/saga/internal/scheduler"
)

// SagaAction envelopes an action dispatched from inside a running
// procedure. Such puts already execute under the scheduler and pass
// through the standard channel synchronously; everything else is
// deferred so that all takers of the current input finish before takers
// of the next one are awakened.
type SagaAction struct {
	Action interface{}
}

// Unwrap returns the action stripped of a SagaAction envelope.
func Unwrap(action interface{}) interface{} {
	if wrapped, ok := action.(SagaAction); ok {
		return wrapped.Action
	}
	return action
}

// Standard is the multicast channel shared by every procedure of a run;
// external dispatches are routed through the scheduler.
type Standard struct {
	*Multicast
	scheduler *scheduler.Scheduler
}

// NewStandard creates the standard channel bound to a scheduler.
func NewStandard(sch *scheduler.Scheduler) *Standard {
	return &Standard{Multicast: NewMulticast(), scheduler: sch}
}

// Put delivers an action to matching takers. Inputs carrying the
// SagaAction envelope are delivered synchronously; the rest go through
// the scheduler.
func (s *Standard) Put(input interface{}) {
	if wrapped, ok := input.(SagaAction); ok {
		s.Multicast.Put(wrapped.Action)
		return
	}
	s.scheduler.Asap(func() {
		s.Multicast.Put(input)
	})
}
