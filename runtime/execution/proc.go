package execution

import (
	"fmt"

	"github.com/viant/saga/internal/idgen"
	"github.com/viant/saga/model/effect"
	"github.com/viant/saga/service/channel"
	"github.com/viant/saga/service/matcher"
	"github.com/viant/saga/service/monitor"
)

// terminate is the internal resume value signalling that a non-maybe
// take observed a closed channel; the procedure finishes through its
// return path.
var terminate = &struct{ name string }{name: "TERMINATE"}

// proc interprets one procedure: it advances the iterator, dispatches
// each yielded effect descriptor to its handler and wires cancellation
// through the pending effect.
type proc struct {
	env            *Env
	iterator       Iterator
	parentEffectID string
	meta           Meta
	task           *Task
	main           *mainTask
	finalRunEffect runEffectFunc
	// nextCb is the continuation the pending effect resumes; its cancel
	// hook is installed by digestEffect for the currently pending effect.
	nextCb *callback
}

// newProc starts interpretation of an iterator and returns its task
// handle. cont, when non-nil, receives the task's terminal outcome and
// gains a cancel hook cascading into the whole procedure.
func newProc(env *Env, iterator Iterator, parentContext *TaskContext, parentEffectID string, meta Meta, isRoot bool, cont *callback) *Task {
	p := &proc{
		env:            env,
		iterator:       iterator,
		parentEffectID: parentEffectID,
		meta:           meta,
	}
	p.main = &mainTask{meta: meta, status: statusRunning, cancelFn: p.cancelMain}
	p.task = newTask(env, p.main, parentContext, meta, isRoot, cont)
	p.finalRunEffect = env.finalize(p.runEffect)
	p.nextCb = &callback{fn: p.next, cancel: noopCancel}
	p.next(nil, nil)
	return p.task
}

// cancelMain resumes the driving iterator with the cancellation signal,
// after cancelling whatever effect is pending.
func (p *proc) cancelMain() {
	if p.main.status == statusRunning {
		p.main.status = statusCancelled
		p.next(effect.TaskCancel, nil)
	}
}

// next advances the iterator with a resume value or an injected error
// and routes the outcome: a yielded effect is digested, a terminal step
// completes the main task.
func (p *proc) next(arg interface{}, argErr error) {
	if p.main.status == statusDone || p.main.status == statusAborted {
		panic("saga: trying to resume an already finished procedure")
	}
	var result Step
	var err error
	switch {
	case argErr != nil:
		result, err = p.iterator.Throw(argErr)
	case arg == effect.TaskCancel:
		p.main.status = statusCancelled
		p.nextCb.invokeCancel()
		result, err = p.iterator.Return(effect.TaskCancel)
	case arg == terminate:
		result, err = p.iterator.Return(nil)
	default:
		result, err = p.iterator.Next(arg)
	}
	if err != nil {
		if p.main.status == statusCancelled {
			// A failure while running cancellation cleanup cannot abort
			// an already cancelled procedure; surface it loudly instead.
			p.env.Logf("saga: error during cancellation cleanup of %s: %v", p.meta, err)
			return
		}
		p.main.status = statusAborted
		p.main.cont(nil, err)
		return
	}
	if !result.Done {
		p.digestEffect(result.Value, p.parentEffectID, "", p.nextCb)
		return
	}
	if p.main.status != statusCancelled {
		p.main.status = statusDone
	}
	p.main.cont(result.Value, nil)
}

// digestEffect assigns a fresh effect id, wraps cb so completion happens
// exactly once (a late cancel after resolution, or a late resolve after
// cancel, is a no-op) and hands the effect to the runner chain.
func (p *proc) digestEffect(eff interface{}, parentEffectID, label string, cb *callback) {
	effectID := idgen.New()
	if p.env.Monitor != nil {
		p.env.Monitor.EffectTriggered(monitor.NewEffect(effectID, parentEffectID, label, describeKind(eff), eff))
	}
	settled := false
	currCb := &callback{cancel: noopCancel}
	currCb.fn = func(result interface{}, err error) {
		if settled {
			return
		}
		settled = true
		cb.cancel = noopCancel
		if p.env.Monitor != nil {
			if err != nil {
				p.env.Monitor.EffectRejected(effectID, err)
			} else {
				p.env.Monitor.EffectResolved(effectID, result)
			}
		}
		if err != nil {
			p.task.crashedEffect = describeEffect(eff)
		}
		cb.fn(result, err)
	}
	cb.cancel = func() {
		if settled {
			return
		}
		settled = true
		currCb.invokeCancel()
		currCb.cancel = noopCancel
		if p.env.Monitor != nil {
			p.env.Monitor.EffectCancelled(effectID)
		}
	}
	p.finalRunEffect(eff, effectID, currCb)
}

// runEffect routes a yielded value: awaitables suspend until completion,
// iterators run as nested procedures, effect descriptors go to their
// handler and anything else resumes the caller as-is.
func (p *proc) runEffect(eff interface{}, effectID string, currCb *callback) {
	switch actual := eff.(type) {
	case *Future:
		p.resolveFuture(actual, currCb)
	case Iterator:
		p.resolveIterator(actual, effectID, metaOf(actual), currCb)
	case *effect.Effect:
		p.runEffectDescriptor(actual, effectID, currCb)
	default:
		currCb.fn(eff, nil)
	}
}

func (p *proc) runEffectDescriptor(eff *effect.Effect, effectID string, currCb *callback) {
	switch eff.Kind {
	case effect.KindTake:
		p.runTakeEffect(eff.Payload.(effect.TakePayload), currCb)
	case effect.KindPut:
		p.runPutEffect(eff.Payload.(effect.PutPayload), currCb)
	case effect.KindCall:
		p.runCallEffect(eff.Payload.(effect.CallPayload), effectID, currCb)
	case effect.KindCPS:
		p.runCPSEffect(eff.Payload.(effect.CPSPayload), currCb)
	case effect.KindFork:
		p.runForkEffect(eff.Payload.(effect.ForkPayload), effectID, currCb)
	case effect.KindJoin:
		p.runJoinEffect(eff.Payload.(effect.JoinPayload), currCb)
	case effect.KindCancel:
		p.runCancelEffect(eff.Payload.(effect.CancelPayload), currCb)
	case effect.KindSelect:
		p.runSelectEffect(eff.Payload.(effect.SelectPayload), currCb)
	case effect.KindActionChannel:
		p.runActionChannelEffect(eff.Payload.(effect.ActionChannelPayload), currCb)
	case effect.KindCancelled:
		currCb.fn(p.main.status == statusCancelled, nil)
	case effect.KindFlush:
		p.runFlushEffect(eff.Payload.(effect.FlushPayload), currCb)
	case effect.KindGetContext:
		currCb.fn(p.task.context.Get(eff.Payload.(effect.GetContextPayload).Key), nil)
	case effect.KindSetContext:
		p.task.context.Merge(eff.Payload.(effect.SetContextPayload).Values)
		currCb.fn(nil, nil)
	case effect.KindAll:
		p.runAllEffect(eff.Payload.(effect.CombinatorPayload), effectID, currCb)
	case effect.KindRace:
		p.runRaceEffect(eff.Payload.(effect.CombinatorPayload), effectID, currCb)
	default:
		currCb.fn(nil, fmt.Errorf("unknown effect kind %v", eff.Kind))
	}
}

// resolveFuture suspends the caller until the awaitable completes. The
// future's cancel hook, when present, becomes the pending effect's
// cancel. Completion is never delivered on the subscriber's stack;
// asynchronous completions re-enter the runtime through the scheduler.
func (p *proc) resolveFuture(f *Future, currCb *callback) {
	currCb.cancel = f.Cancel
	scheduler := p.env.Scheduler
	subscribed := f.subscribe(func(result interface{}, err error) {
		scheduler.Asap(func() {
			currCb.fn(result, err)
		})
	})
	if !subscribed {
		result, err, _ := f.poll()
		scheduler.Asap(func() {
			currCb.fn(result, err)
		})
	}
}

// resolveIterator runs a nested procedure; its terminal outcome resumes
// the caller.
func (p *proc) resolveIterator(iterator Iterator, effectID string, meta Meta, currCb *callback) {
	newProc(p.env, iterator, p.task.context, effectID, meta, false, currCb)
}

func (p *proc) compileMatcher(pattern interface{}) (matcher.Predicate, error) {
	if pattern == nil {
		return nil, nil
	}
	if p.env.Types != nil {
		return matcher.Compile(pattern, matcher.WithTypes(p.env.Types))
	}
	return matcher.Compile(pattern)
}

func (p *proc) runTakeEffect(payload effect.TakePayload, currCb *callback) {
	ch := payload.Channel
	if ch == nil {
		ch = p.env.StdChannel
	}
	match, err := p.compileMatcher(payload.Pattern)
	if err != nil {
		currCb.fn(nil, err)
		return
	}
	takeCb := func(input interface{}) {
		if err, ok := input.(error); ok {
			currCb.fn(nil, err)
			return
		}
		if effect.IsEnd(input) && !payload.Maybe {
			currCb.fn(terminate, nil)
			return
		}
		currCb.fn(input, nil)
	}
	var predicate func(interface{}) bool
	if match != nil {
		predicate = match
	}
	currCb.cancel = ch.Take(takeCb, predicate)
}

// runPutEffect schedules the delivery: every taker reacting to the input
// currently being processed finishes before any taker is awakened for
// this one, and the putter's own continuation resumes before the
// dispatched action reaches takers. Puts are non-cancellable once
// dispatched. Procedures that rely on synchronous propagation instead
// put a channel.SagaAction envelope, which the standard channel passes
// through undeferred.
func (p *proc) runPutEffect(payload effect.PutPayload, currCb *callback) {
	p.env.Scheduler.Asap(func() {
		var result interface{}
		var err error
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("put: %v", rec)
				}
			}()
			if payload.Channel != nil {
				payload.Channel.Put(payload.Action)
				result = payload.Action
			} else {
				result = p.env.Dispatch(payload.Action)
			}
		}()
		if err != nil {
			currCb.fn(nil, err)
			return
		}
		if payload.Resolve {
			if f, ok := result.(*Future); ok {
				p.resolveFuture(f, currCb)
				return
			}
		}
		currCb.fn(result, nil)
	})
}

func (p *proc) runCallEffect(payload effect.CallPayload, effectID string, currCb *callback) {
	if iterator, ok := payload.Fn.(Iterator); ok {
		p.resolveIterator(iterator, effectID, metaOf(payload.Fn), currCb)
		return
	}
	if iterator, ok := procIterator(payload.Fn, payload.Args); ok {
		p.resolveIterator(iterator, effectID, metaOf(payload.Fn), currCb)
		return
	}
	result, err := invoke(payload.Fn, payload.Args)
	if err != nil {
		currCb.fn(nil, err)
		return
	}
	switch actual := result.(type) {
	case *Future:
		p.resolveFuture(actual, currCb)
	case Iterator:
		p.resolveIterator(actual, effectID, metaOf(payload.Fn), currCb)
	default:
		currCb.fn(result, nil)
	}
}

func (p *proc) runCPSEffect(payload effect.CPSPayload, currCb *callback) {
	cb := NewNodeCallback()
	if err := invokeCPS(payload.Fn, payload.Args, cb); err != nil {
		currCb.fn(nil, err)
		return
	}
	p.resolveFuture(cb.future, currCb)
}

// runForkEffect starts a child procedure atomically: the scheduler is
// suspended around the child's first slice so puts it emits do not race
// ahead of the taker that spawned it. Forks are non-cancellable.
func (p *proc) runForkEffect(payload effect.ForkPayload, effectID string, currCb *callback) {
	iterator := createTaskIterator(payload.Fn, payload.Args)
	meta := metaOf(payload.Fn)
	p.env.Scheduler.Immediately(func() {
		child := newProc(p.env, iterator, p.task.context, effectID, meta, payload.Detached, nil)
		if payload.Detached {
			currCb.fn(child, nil)
			return
		}
		if child.IsRunning() {
			p.task.queue.addTask(child)
			currCb.fn(child, nil)
			return
		}
		if child.IsAborted() {
			p.task.queue.abort(child.err)
			return
		}
		currCb.fn(child, nil)
	})
}

func (p *proc) runJoinEffect(payload effect.JoinPayload, currCb *callback) {
	target, ok := payload.Task.(*Task)
	if !ok {
		currCb.fn(nil, fmt.Errorf("join: expected a task handle, got %T", payload.Task))
		return
	}
	if target == p.task {
		currCb.fn(nil, fmt.Errorf("join: task cannot join itself"))
		return
	}
	if target.IsRunning() {
		waiter := &joiner{task: p.task, cb: currCb}
		target.joiners = append(target.joiners, waiter)
		currCb.cancel = func() {
			if !target.IsRunning() {
				return
			}
			for i, candidate := range target.joiners {
				if candidate == waiter {
					target.joiners = append(target.joiners[:i], target.joiners[i+1:]...)
					return
				}
			}
		}
		return
	}
	if target.IsAborted() {
		currCb.fn(nil, target.err)
		return
	}
	currCb.fn(target.result, nil)
}

// runCancelEffect cancels the target synchronously and completes;
// cancels are non-cancellable.
func (p *proc) runCancelEffect(payload effect.CancelPayload, currCb *callback) {
	target := p.task
	if payload.Task != nil && payload.Task != effect.SelfCancellation {
		actual, ok := payload.Task.(*Task)
		if !ok {
			currCb.fn(nil, fmt.Errorf("cancel: expected a task handle, got %T", payload.Task))
			return
		}
		if actual != nil {
			target = actual
		}
	}
	if target.IsRunning() {
		target.cancel()
	}
	currCb.fn(nil, nil)
}

func (p *proc) runSelectEffect(payload effect.SelectPayload, currCb *callback) {
	state := p.env.GetState()
	args := append([]interface{}{state}, payload.Args...)
	result, err := invoke(payload.Selector, args)
	currCb.fn(result, err)
}

// actionChannel mirrors every standard-channel input matching the
// pattern into a fresh buffered channel through a self-rearming taker
// that stops rearming on END.
func (p *proc) runActionChannelEffect(payload effect.ActionChannelPayload, currCb *callback) {
	match, err := p.compileMatcher(payload.Pattern)
	if err != nil {
		currCb.fn(nil, err)
		return
	}
	mirror := &actionChannel{inner: channel.New(payload.Buffer)}
	var taker func(interface{})
	taker = func(action interface{}) {
		if !effect.IsEnd(action) {
			mirror.cancelTake = p.env.StdChannel.Take(taker, match)
		}
		mirror.inner.Put(action)
	}
	mirror.cancelTake = p.env.StdChannel.Take(taker, match)
	currCb.fn(mirror, nil)
}

func (p *proc) runFlushEffect(payload effect.FlushPayload, currCb *callback) {
	if payload.Channel == nil {
		currCb.fn(nil, fmt.Errorf("flush: nil channel"))
		return
	}
	payload.Channel.Flush(func(values interface{}) {
		currCb.fn(values, nil)
	})
}

// actionChannel couples the mirroring channel with its standard-channel
// subscription so closing it also detaches the taker.
type actionChannel struct {
	inner      *channel.Channel
	cancelTake func()
}

func (c *actionChannel) Take(cb func(interface{}), match func(interface{}) bool) func() {
	return c.inner.Take(cb, match)
}

func (c *actionChannel) Flush(cb func(interface{})) { c.inner.Flush(cb) }

func (c *actionChannel) Put(input interface{}) { c.inner.Put(input) }

func (c *actionChannel) Close() {
	c.cancelTake()
	c.inner.Close()
}

var _ effect.TakeableChannel = (*actionChannel)(nil)
var _ effect.FlushableChannel = (*actionChannel)(nil)
