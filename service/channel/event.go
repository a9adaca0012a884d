package channel

import (
	"fmt"

	"github.com/viant/saga/model/effect"
	"github.com/viant/saga/service/buffer"
)

// Subscribe connects an emitter to an external event source and returns
// an unsubscribe func. Returning nil is a programmer error.
type Subscribe func(emit func(input interface{})) (unsubscribe func())

// EventChannel adapts an external subscription into a channel: emitted
// values are buffered for takers, END terminates the channel and
// unsubscribes exactly once.
type EventChannel struct {
	inner       *Channel
	unsubscribe func()
	closed      bool
}

type eventOptions struct {
	buf  buffer.Buffer
	gate func(func())
}

// EventOption customises an event channel.
type EventOption func(*eventOptions)

// WithBuffer sets the buffer holding emitted values until taken. The
// default drops values emitted while no taker is pending.
func WithBuffer(buf buffer.Buffer) EventOption {
	return func(o *eventOptions) { o.buf = buf }
}

// WithEmitGate routes every emission through gate. The runtime installs
// its scheduler here so external producers running on arbitrary
// goroutines serialise with effect interpretation.
func WithEmitGate(gate func(func())) EventOption {
	return func(o *eventOptions) { o.gate = gate }
}

// NewEventChannel subscribes to an external source and exposes it as a
// channel. Construction fails when subscribe does not return an
// unsubscribe func.
func NewEventChannel(subscribe Subscribe, options ...EventOption) (*EventChannel, error) {
	o := &eventOptions{}
	for _, option := range options {
		option(o)
	}
	if o.buf == nil {
		o.buf = buffer.None()
	}
	ec := &EventChannel{inner: New(o.buf)}
	deliver := func(input interface{}) {
		if effect.IsEnd(input) {
			ec.Close()
			return
		}
		ec.inner.Put(input)
	}
	emit := deliver
	if o.gate != nil {
		gate := o.gate
		emit = func(input interface{}) {
			gate(func() { deliver(input) })
		}
	}
	ec.unsubscribe = subscribe(emit)
	if ec.unsubscribe == nil {
		return nil, fmt.Errorf("eventChannel: subscribe should return an unsubscribe function")
	}
	// END emitted during subscribe closes the channel before the
	// unsubscribe func is known; settle the debt here.
	if ec.closed {
		ec.unsubscribe()
	}
	return ec, nil
}

// Take delegates to the inner channel.
func (e *EventChannel) Take(cb func(interface{}), match func(interface{}) bool) func() {
	return e.inner.Take(cb, match)
}

// Flush delegates to the inner channel.
func (e *EventChannel) Flush(cb func(interface{})) {
	e.inner.Flush(cb)
}

// Close unsubscribes exactly once and closes the inner channel.
func (e *EventChannel) Close() {
	if e.closed {
		return
	}
	e.closed = true
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.inner.Close()
}

var _ effect.TakeableChannel = (*EventChannel)(nil)
var _ effect.FlushableChannel = (*EventChannel)(nil)
