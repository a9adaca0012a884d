package execution

import (
	"log"

	"github.com/viant/saga/extension"
	"github.com/viant/saga/internal/scheduler"
	"github.com/viant/saga/progress"
	"github.com/viant/saga/service/channel"
	"github.com/viant/saga/service/monitor"
)

// EffectMiddleware wraps effect execution: it receives the next runner
// and must forward every effect to it exactly once (failing to forward
// is a programmer error and leaves the effect pending forever).
type EffectMiddleware func(next func(effect interface{})) func(effect interface{})

// Env is the environment shared by every procedure of a run.
type Env struct {
	Scheduler  *scheduler.Scheduler
	StdChannel *channel.Standard
	// Dispatch routes put effects without an explicit channel; the
	// default puts straight into the standard channel.
	Dispatch func(action interface{}) interface{}
	// GetState backs select effects.
	GetState func() interface{}
	Monitor  monitor.Monitor
	// OnError receives uncaught root errors; when nil they are logged.
	OnError     func(err error)
	Logf        func(format string, args ...interface{})
	Types       *extension.Types
	Progress    *progress.Progress
	Middlewares []EffectMiddleware
}

// Normalize fills defaults so a partially populated environment is
// usable.
func (e *Env) Normalize() {
	if e.Scheduler == nil {
		e.Scheduler = scheduler.New()
	}
	if e.StdChannel == nil {
		e.StdChannel = channel.NewStandard(e.Scheduler)
	}
	if e.Dispatch == nil {
		std := e.StdChannel
		e.Dispatch = func(action interface{}) interface{} {
			std.Put(action)
			return action
		}
	}
	if e.GetState == nil {
		e.GetState = func() interface{} { return nil }
	}
	if e.Logf == nil {
		e.Logf = log.Printf
	}
}

type runEffectFunc func(effect interface{}, effectID string, cb *callback)

// finalize composes the user-installed effect middlewares around run.
func (e *Env) finalize(run runEffectFunc) runEffectFunc {
	if len(e.Middlewares) == 0 {
		return run
	}
	middlewares := e.Middlewares
	return func(eff interface{}, effectID string, cb *callback) {
		chain := func(wrapped interface{}) {
			run(wrapped, effectID, cb)
		}
		for i := len(middlewares) - 1; i >= 0; i-- {
			chain = middlewares[i](chain)
		}
		chain(eff)
	}
}

// callback is an effect completion continuation with a mutable cancel
// hook; the exactly-once discipline is enforced by digestEffect.
type callback struct {
	fn     func(result interface{}, err error)
	cancel func()
}

func (c *callback) invokeCancel() {
	if c.cancel != nil {
		c.cancel()
	}
}

func noopCancel() {}
