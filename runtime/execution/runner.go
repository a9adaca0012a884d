package execution

import (
	"fmt"

	"github.com/viant/saga/internal/idgen"
	"github.com/viant/saga/service/monitor"
)

// RunOption customises a root run.
type RunOption func(*runOptions)

type runOptions struct {
	context map[string]interface{}
	meta    *Meta
	args    []interface{}
}

// WithContext seeds the root task context.
func WithContext(values map[string]interface{}) RunOption {
	return func(o *runOptions) { o.context = values }
}

// WithMeta overrides the root procedure's reported name and location.
func WithMeta(meta Meta) RunOption {
	return func(o *runOptions) { o.meta = &meta }
}

// RunIterator starts a root procedure over an explicit iterator and
// returns its task handle.
func RunIterator(env *Env, iterator Iterator, options ...RunOption) *Task {
	o := &runOptions{}
	for _, option := range options {
		option(o)
	}
	env.Normalize()
	meta := Meta{Name: "root"}
	if o.meta != nil {
		meta = *o.meta
	}
	effectID := idgen.New()
	if env.Monitor != nil {
		env.Monitor.RootStarted(&monitor.Root{EffectID: effectID, Name: meta.Name, Args: o.args})
	}
	parentContext := NewTaskContext(nil)
	parentContext.Merge(o.context)
	var task *Task
	env.Scheduler.Immediately(func() {
		task = newProc(env, iterator, parentContext, effectID, meta, true, nil)
	})
	return task
}

// Run starts a root procedure from a procedure-shaped function (first
// parameter *Yield) or a ready iterator.
func Run(env *Env, fn interface{}, args []interface{}, options ...RunOption) (*Task, error) {
	if iterator, ok := fn.(Iterator); ok {
		return RunIterator(env, iterator, options...), nil
	}
	iterator, ok := procIterator(fn, args)
	if !ok {
		return nil, fmt.Errorf("run: %T is neither an iterator nor a procedure", fn)
	}
	options = append(options, withDefaultMeta(metaOf(fn), args))
	return RunIterator(env, iterator, options...), nil
}

func withDefaultMeta(meta Meta, args []interface{}) RunOption {
	return func(o *runOptions) {
		if o.meta == nil {
			o.meta = &meta
		}
		o.args = args
	}
}
