package effect

import "github.com/viant/saga/service/buffer"

// Take suspends until a standard-channel input matches pattern.
func Take(pattern interface{}) *Effect {
	return &Effect{Kind: KindTake, Payload: TakePayload{Pattern: pattern}}
}

// TakeMaybe is Take without END translation: a closed channel delivers
// the END sentinel to the procedure instead of terminating it.
func TakeMaybe(pattern interface{}) *Effect {
	return &Effect{Kind: KindTake, Payload: TakePayload{Pattern: pattern, Maybe: true}}
}

// TakeFrom takes from a specific channel. Patterns only apply to
// multicast channels.
func TakeFrom(channel TakeableChannel, pattern ...interface{}) *Effect {
	payload := TakePayload{Channel: channel}
	if len(pattern) > 0 {
		payload.Pattern = pattern[0]
	}
	return &Effect{Kind: KindTake, Payload: payload}
}

// TakeMaybeFrom is TakeFrom without END translation.
func TakeMaybeFrom(channel TakeableChannel, pattern ...interface{}) *Effect {
	payload := TakePayload{Channel: channel, Maybe: true}
	if len(pattern) > 0 {
		payload.Pattern = pattern[0]
	}
	return &Effect{Kind: KindTake, Payload: payload}
}

// Put dispatches an action through the environment dispatcher.
func Put(action interface{}) *Effect {
	return &Effect{Kind: KindPut, Payload: PutPayload{Action: action}}
}

// PutResolve dispatches an action and, when the dispatch result is
// awaitable, waits for it before resuming the caller.
func PutResolve(action interface{}) *Effect {
	return &Effect{Kind: KindPut, Payload: PutPayload{Action: action, Resolve: true}}
}

// PutTo delivers an action into a specific channel.
func PutTo(channel PuttableChannel, action interface{}) *Effect {
	return &Effect{Kind: KindPut, Payload: PutPayload{Channel: channel, Action: action}}
}

// Call invokes fn with args. An awaitable result suspends the caller
// until completion; an iterator result runs as a nested procedure; any
// other result resumes the caller synchronously.
func Call(fn interface{}, args ...interface{}) *Effect {
	return &Effect{Kind: KindCall, Payload: CallPayload{Fn: fn, Args: args}}
}

// CPS invokes a node-style fn(args..., callback) and suspends until the
// callback fires.
func CPS(fn interface{}, args ...interface{}) *Effect {
	return &Effect{Kind: KindCPS, Payload: CPSPayload{Fn: fn, Args: args}}
}

// Fork starts an attached child procedure and resumes with its task
// handle. The child's lifecycle is coupled to the parent.
func Fork(fn interface{}, args ...interface{}) *Effect {
	return &Effect{Kind: KindFork, Payload: ForkPayload{Fn: fn, Args: args}}
}

// Spawn starts a detached child procedure with an independent lifecycle.
func Spawn(fn interface{}, args ...interface{}) *Effect {
	return &Effect{Kind: KindFork, Payload: ForkPayload{Fn: fn, Args: args, Detached: true}}
}

// Join waits for another task's terminal value.
func Join(task interface{}) *Effect {
	return &Effect{Kind: KindJoin, Payload: JoinPayload{Task: task}}
}

// Cancel cancels the given task handle.
func Cancel(task interface{}) *Effect {
	return &Effect{Kind: KindCancel, Payload: CancelPayload{Task: task}}
}

// CancelSelf cancels the calling task.
func CancelSelf() *Effect {
	return &Effect{Kind: KindCancel, Payload: CancelPayload{Task: SelfCancellation}}
}

// Select applies selector to the environment state and resumes with the
// result.
func Select(selector interface{}, args ...interface{}) *Effect {
	return &Effect{Kind: KindSelect, Payload: SelectPayload{Selector: selector, Args: args}}
}

// ActionChannel buffers every subsequent standard-channel input matching
// pattern into a fresh channel; taking from it reproduces the match
// sequence in order.
func ActionChannel(pattern interface{}, buf ...buffer.Buffer) *Effect {
	payload := ActionChannelPayload{Pattern: pattern}
	if len(buf) > 0 {
		payload.Buffer = buf[0]
	}
	return &Effect{Kind: KindActionChannel, Payload: payload}
}

// Flush drains a channel's buffer and resumes with the drained values.
func Flush(channel FlushableChannel) *Effect {
	return &Effect{Kind: KindFlush, Payload: FlushPayload{Channel: channel}}
}

// Cancelled resumes with whether the enclosing task has been cancelled.
func Cancelled() *Effect {
	return &Effect{Kind: KindCancelled}
}

// GetContext reads a key from the task context.
func GetContext(key string) *Effect {
	return &Effect{Kind: KindGetContext, Payload: GetContextPayload{Key: key}}
}

// SetContext merges values into the task context. Child writes are
// invisible to the parent.
func SetContext(values map[string]interface{}) *Effect {
	return &Effect{Kind: KindSetContext, Payload: SetContextPayload{Values: values}}
}

// All fans out effects and resumes once every one of them has succeeded,
// preserving the list shape. The first error or cancellation cancels the
// remaining children and propagates.
func All(effects ...interface{}) *Effect {
	return &Effect{Kind: KindAll, Payload: CombinatorPayload{List: effects}}
}

// AllNamed is All over a keyed set; the result is keyed the same way.
func AllNamed(effects map[string]interface{}) *Effect {
	return &Effect{Kind: KindAll, Payload: CombinatorPayload{Named: effects}}
}

// Race fans out effects and resumes with the first one to complete with
// a non-END, non-cancel value; the losers are cancelled.
func Race(effects ...interface{}) *Effect {
	return &Effect{Kind: KindRace, Payload: CombinatorPayload{List: effects}}
}

// RaceNamed is Race over a keyed set; the winner is reported as a
// single-key map.
func RaceNamed(effects map[string]interface{}) *Effect {
	return &Effect{Kind: KindRace, Payload: CombinatorPayload{Named: effects}}
}
