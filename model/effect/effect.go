// Package effect defines the declarative effect descriptors a procedure
// yields to the runtime, together with the channel-facing contracts and
// the runtime sentinels. Descriptors are plain tagged records; the
// interpreter, not the procedure, performs the requested action.
package effect

import (
	"github.com/viant/saga/service/buffer"
)

// Kind discriminates effect descriptors.
type Kind int

const (
	KindTake Kind = iota + 1
	KindPut
	KindCall
	KindCPS
	KindFork
	KindJoin
	KindCancel
	KindSelect
	KindActionChannel
	KindCancelled
	KindFlush
	KindGetContext
	KindSetContext
	KindAll
	KindRace
)

// String returns the effect kind label used in diagnostics and traces.
func (k Kind) String() string {
	switch k {
	case KindTake:
		return "take"
	case KindPut:
		return "put"
	case KindCall:
		return "call"
	case KindCPS:
		return "cps"
	case KindFork:
		return "fork"
	case KindJoin:
		return "join"
	case KindCancel:
		return "cancel"
	case KindSelect:
		return "select"
	case KindActionChannel:
		return "actionChannel"
	case KindCancelled:
		return "cancelled"
	case KindFlush:
		return "flush"
	case KindGetContext:
		return "getContext"
	case KindSetContext:
		return "setContext"
	case KindAll:
		return "all"
	case KindRace:
		return "race"
	}
	return "unknown"
}

// Effect is a tagged effect descriptor. The concrete payload type is
// determined by Kind. Effects are created through the factory helpers in
// this package; the distinct struct type keeps descriptors from being
// confused with futures or iterators.
type Effect struct {
	Kind    Kind
	Payload interface{}
}

// TakeableChannel is anything a take effect can subscribe to. The
// returned func removes the taker; it must be a no-op once the taker has
// fired. match is nil for single-consumer channels.
type TakeableChannel interface {
	Take(cb func(interface{}), match func(interface{}) bool) func()
}

// PuttableChannel is anything a put effect can deliver into.
type PuttableChannel interface {
	Put(input interface{})
}

// FlushableChannel is anything a flush effect can drain.
type FlushableChannel interface {
	Flush(cb func(interface{}))
}

// TakePayload describes a take effect. A nil Channel targets the
// standard channel.
type TakePayload struct {
	Channel TakeableChannel
	Pattern interface{}
	Maybe   bool
}

// PutPayload describes a put effect. A nil Channel routes the action
// through the environment dispatcher. Resolve awaits an awaitable
// dispatch result before resuming the caller.
type PutPayload struct {
	Channel PuttableChannel
	Action  interface{}
	Resolve bool
}

// CallPayload describes a synchronous/awaitable invocation.
type CallPayload struct {
	Fn   interface{}
	Args []interface{}
}

// CPSPayload describes a node-style callback invocation.
type CPSPayload struct {
	Fn   interface{}
	Args []interface{}
}

// ForkPayload describes an attached (or, when Detached, spawned) child
// procedure.
type ForkPayload struct {
	Fn       interface{}
	Args     []interface{}
	Detached bool
}

// JoinPayload waits for another task's terminal value. Task is the
// handle obtained from a fork effect.
type JoinPayload struct {
	Task interface{}
}

// CancelPayload cancels a task. A nil Task (or the SelfCancellation
// sentinel) targets the calling task.
type CancelPayload struct {
	Task interface{}
}

// SelectPayload applies a selector to the environment state.
type SelectPayload struct {
	Selector interface{}
	Args     []interface{}
}

// ActionChannelPayload mirrors standard-channel inputs matching Pattern
// into a fresh buffered channel.
type ActionChannelPayload struct {
	Pattern interface{}
	Buffer  buffer.Buffer
}

// FlushPayload drains a channel's buffer.
type FlushPayload struct {
	Channel FlushableChannel
}

// GetContextPayload reads a key from the task context.
type GetContextPayload struct {
	Key string
}

// SetContextPayload merges values into the task context.
type SetContextPayload struct {
	Values map[string]interface{}
}

// CombinatorPayload fans out sub-effects for all/race. Exactly one of
// List or Named is set; the result preserves the input shape.
type CombinatorPayload struct {
	List  []interface{}
	Named map[string]interface{}
}
