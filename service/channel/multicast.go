package channel

import (
	"github.com/viant/saga/model/effect"
)

type multicastTaker struct {
	match  func(interface{}) bool
	cb     func(interface{})
	cancel func()
}

// Multicast is a pattern-matching broadcast channel without buffering. A
// put invokes every pending taker whose predicate holds; takers
// registered or removed during a put take effect only on the next put
// (copy-on-write snapshot discipline).
type Multicast struct {
	closed        bool
	currentTakers []*multicastTaker
	nextTakers    []*multicastTaker
	// shared marks nextTakers as aliasing the snapshot currently being
	// iterated; it must be cloned before mutation.
	shared bool
}

// NewMulticast creates a multicast channel.
func NewMulticast() *Multicast {
	return &Multicast{}
}

func (m *Multicast) ensureCanMutateNextTakers() {
	if !m.shared {
		return
	}
	cloned := make([]*multicastTaker, len(m.nextTakers))
	copy(cloned, m.nextTakers)
	m.nextTakers = cloned
	m.shared = false
}

// Put broadcasts input to every matching taker registered before this
// put. Putting END closes the channel.
func (m *Multicast) Put(input interface{}) {
	if DevMode && input == nil {
		panic("saga: put of nil input into multicast channel")
	}
	if m.closed {
		return
	}
	if effect.IsEnd(input) {
		m.Close()
		return
	}
	m.currentTakers = m.nextTakers
	m.shared = true
	snapshot := m.currentTakers
	for _, one := range snapshot {
		if one.match != nil && !one.match(input) {
			continue
		}
		one.cancel()
		one.cb(input)
	}
}

// Take registers cb with a match predicate; a nil match accepts every
// input. A closed channel delivers END synchronously. The returned func
// detaches the taker and is a no-op once it has fired.
func (m *Multicast) Take(cb func(interface{}), match func(interface{}) bool) func() {
	if m.closed {
		cb(effect.END)
		return func() {}
	}
	pending := &multicastTaker{match: match, cb: cb}
	cancelled := false
	pending.cancel = func() {
		if cancelled {
			return
		}
		cancelled = true
		m.ensureCanMutateNextTakers()
		for i, candidate := range m.nextTakers {
			if candidate == pending {
				m.nextTakers = append(m.nextTakers[:i], m.nextTakers[i+1:]...)
				return
			}
		}
	}
	m.ensureCanMutateNextTakers()
	m.nextTakers = append(m.nextTakers, pending)
	return pending.cancel
}

// Close broadcasts END to the current takers and empties the channel.
func (m *Multicast) Close() {
	if m.closed {
		return
	}
	m.closed = true
	snapshot := m.nextTakers
	m.currentTakers = snapshot
	m.nextTakers = nil
	m.shared = false
	for _, one := range snapshot {
		one.cb(effect.END)
	}
}

// IsClosed reports whether the channel has been closed.
func (m *Multicast) IsClosed() bool { return m.closed }

var _ effect.TakeableChannel = (*Multicast)(nil)
var _ effect.PuttableChannel = (*Multicast)(nil)
