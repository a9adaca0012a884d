package execution

import (
	"github.com/viant/saga/model/effect"
	"github.com/viant/saga/service/buffer"
)

// Yield is a procedure's handle into the runtime: Do suspends the body
// on an effect and resumes with the runtime's answer. The remaining
// methods are sugar over the effect factories.
type Yield struct {
	routine *Routine
}

// Do yields an effect (an effect descriptor, a *Future or a nested
// Iterator) and suspends until the runtime resumes the procedure. An
// injected failure surfaces as the returned error; cancellation unwinds
// the body, running deferred cleanup, which may itself call Do.
func (y *Yield) Do(eff interface{}) (interface{}, error) {
	y.routine.stepCh <- stepMsg{value: eff}
	in := <-y.routine.resumeCh
	switch in.mode {
	case resumeThrow:
		return nil, in.err
	case resumeReturn:
		panic(routineUnwind{value: in.value})
	}
	return in.value, nil
}

// Take suspends until a standard-channel input matches pattern.
func (y *Yield) Take(pattern interface{}) (interface{}, error) {
	return y.Do(effect.Take(pattern))
}

// TakeFrom takes from a specific channel.
func (y *Yield) TakeFrom(channel effect.TakeableChannel, pattern ...interface{}) (interface{}, error) {
	return y.Do(effect.TakeFrom(channel, pattern...))
}

// Put dispatches an action.
func (y *Yield) Put(action interface{}) (interface{}, error) {
	return y.Do(effect.Put(action))
}

// PutTo delivers an action into a specific channel.
func (y *Yield) PutTo(channel effect.PuttableChannel, action interface{}) (interface{}, error) {
	return y.Do(effect.PutTo(channel, action))
}

// Call invokes fn with args through the runtime.
func (y *Yield) Call(fn interface{}, args ...interface{}) (interface{}, error) {
	return y.Do(effect.Call(fn, args...))
}

// CPS invokes a node-style function and suspends until its callback.
func (y *Yield) CPS(fn interface{}, args ...interface{}) (interface{}, error) {
	return y.Do(effect.CPS(fn, args...))
}

// Fork starts an attached child procedure.
func (y *Yield) Fork(fn interface{}, args ...interface{}) (*Task, error) {
	result, err := y.Do(effect.Fork(fn, args...))
	if err != nil {
		return nil, err
	}
	task, _ := result.(*Task)
	return task, nil
}

// Spawn starts a detached child procedure.
func (y *Yield) Spawn(fn interface{}, args ...interface{}) (*Task, error) {
	result, err := y.Do(effect.Spawn(fn, args...))
	if err != nil {
		return nil, err
	}
	task, _ := result.(*Task)
	return task, nil
}

// Join waits for a task's terminal value.
func (y *Yield) Join(task *Task) (interface{}, error) {
	return y.Do(effect.Join(task))
}

// Cancel cancels a task.
func (y *Yield) Cancel(task *Task) error {
	_, err := y.Do(effect.Cancel(task))
	return err
}

// CancelSelf cancels the calling task; the body unwinds before this
// returns.
func (y *Yield) CancelSelf() error {
	_, err := y.Do(effect.CancelSelf())
	return err
}

// Select applies selector to the environment state.
func (y *Yield) Select(selector interface{}, args ...interface{}) (interface{}, error) {
	return y.Do(effect.Select(selector, args...))
}

// ActionChannel mirrors matching standard-channel inputs into a fresh
// buffered channel.
func (y *Yield) ActionChannel(pattern interface{}, buf ...buffer.Buffer) (effect.TakeableChannel, error) {
	result, err := y.Do(effect.ActionChannel(pattern, buf...))
	if err != nil {
		return nil, err
	}
	channel, _ := result.(effect.TakeableChannel)
	return channel, nil
}

// Flush drains a channel's buffer.
func (y *Yield) Flush(channel effect.FlushableChannel) (interface{}, error) {
	return y.Do(effect.Flush(channel))
}

// Cancelled reports whether the enclosing task has been cancelled;
// meaningful inside deferred cleanup.
func (y *Yield) Cancelled() bool {
	result, err := y.Do(effect.Cancelled())
	if err != nil {
		return false
	}
	cancelled, _ := result.(bool)
	return cancelled
}

// GetContext reads a key from the task context.
func (y *Yield) GetContext(key string) (interface{}, error) {
	return y.Do(effect.GetContext(key))
}

// SetContext merges values into the task context.
func (y *Yield) SetContext(values map[string]interface{}) error {
	_, err := y.Do(effect.SetContext(values))
	return err
}

// All fans out effects and waits for every one of them.
func (y *Yield) All(effects ...interface{}) ([]interface{}, error) {
	result, err := y.Do(effect.All(effects...))
	if err != nil {
		return nil, err
	}
	values, _ := result.([]interface{})
	return values, nil
}

// AllNamed is All over a keyed set.
func (y *Yield) AllNamed(effects map[string]interface{}) (map[string]interface{}, error) {
	result, err := y.Do(effect.AllNamed(effects))
	if err != nil {
		return nil, err
	}
	values, _ := result.(map[string]interface{})
	return values, nil
}

// Race fans out effects and resumes with the winner at its index.
func (y *Yield) Race(effects ...interface{}) ([]interface{}, error) {
	result, err := y.Do(effect.Race(effects...))
	if err != nil {
		return nil, err
	}
	values, _ := result.([]interface{})
	return values, nil
}

// RaceNamed is Race over a keyed set; the winner is the single entry.
func (y *Yield) RaceNamed(effects map[string]interface{}) (map[string]interface{}, error) {
	result, err := y.Do(effect.RaceNamed(effects))
	if err != nil {
		return nil, err
	}
	values, _ := result.(map[string]interface{})
	return values, nil
}
