// Package channel implements the rendezvous primitives between event
// producers and pending takers: a single-consumer buffered channel, a
// pattern-matching multicast channel, the scheduler-deferred standard
// channel and an adapter turning external subscriptions into channels.
//
// Channels are owned by the cooperative runtime: all mutation is
// serialised by the scheduler, no internal locking is performed.
package channel

import (
	"github.com/viant/saga/model/effect"
	"github.com/viant/saga/service/buffer"
)

// DevMode enables argument checking and forbidden-state assertions.
// Violations indicate programmer errors and panic with a descriptive
// message.
var DevMode = false

type taker struct {
	cb func(interface{})
}

// Channel is a single-consumer buffered channel: a put delivers to the
// oldest pending taker if any, otherwise it is buffered; a take is
// satisfied synchronously from the buffer, from END when closed, and
// suspends otherwise.
type Channel struct {
	closed bool
	buf    buffer.Buffer
	takers []*taker
}

// New creates a channel. The default buffer expands without bound.
func New(buf ...buffer.Buffer) *Channel {
	c := &Channel{}
	if len(buf) > 0 && buf[0] != nil {
		c.buf = buf[0]
	} else {
		c.buf = buffer.Expanding(10)
	}
	return c
}

func (c *Channel) checkForbiddenStates() {
	if !DevMode {
		return
	}
	if c.closed && len(c.takers) > 0 {
		panic("saga: cannot have a closed channel with pending takers")
	}
	if len(c.takers) > 0 && !c.buf.IsEmpty() {
		panic("saga: cannot have pending takers with non empty buffer")
	}
}

// Put delivers input to the oldest pending taker, or buffers it. Puts on
// a closed channel are dropped.
func (c *Channel) Put(input interface{}) {
	c.checkForbiddenStates()
	if DevMode && input == nil {
		panic("saga: put of nil input into channel")
	}
	if c.closed {
		return
	}
	if len(c.takers) == 0 {
		c.buf.Put(input)
		return
	}
	first := c.takers[0]
	c.takers = c.takers[1:]
	first.cb(input)
}

// Take delivers a value to cb: synchronously from the buffer or, when
// closed and drained, the END sentinel; otherwise cb suspends as a
// pending taker. The returned func removes the pending taker; match is
// accepted for interface symmetry with multicast channels and ignored.
func (c *Channel) Take(cb func(interface{}), match func(interface{}) bool) func() {
	c.checkForbiddenStates()
	if c.closed && c.buf.IsEmpty() {
		cb(effect.END)
		return func() {}
	}
	if !c.buf.IsEmpty() {
		value, _ := c.buf.Take()
		cb(value)
		return func() {}
	}
	pending := &taker{cb: cb}
	c.takers = append(c.takers, pending)
	return func() {
		c.remove(pending)
	}
}

func (c *Channel) remove(pending *taker) {
	for i, candidate := range c.takers {
		if candidate == pending {
			c.takers = append(c.takers[:i], c.takers[i+1:]...)
			return
		}
	}
}

// Flush drains the buffer into cb; a closed and drained channel delivers
// END instead.
func (c *Channel) Flush(cb func(interface{})) {
	c.checkForbiddenStates()
	if c.closed && c.buf.IsEmpty() {
		cb(effect.END)
		return
	}
	cb(c.buf.Flush())
}

// Close marks the channel closed and delivers END to every pending
// taker.
func (c *Channel) Close() {
	c.checkForbiddenStates()
	if c.closed {
		return
	}
	c.closed = true
	pending := c.takers
	c.takers = nil
	for _, one := range pending {
		one.cb(effect.END)
	}
}

// IsClosed reports whether Close has been called.
func (c *Channel) IsClosed() bool { return c.closed }

var _ effect.TakeableChannel = (*Channel)(nil)
var _ effect.PuttableChannel = (*Channel)(nil)
var _ effect.FlushableChannel = (*Channel)(nil)
