package saga

import (
	"github.com/viant/saga/service/channel"
)

// Store is the host-side glue the runtime integrates with: a dispatcher
// feeding a reducer chain and a state reader backing select effects.
type Store interface {
	Dispatch(action interface{}) interface{}
	GetState() interface{}
}

// Dispatcher is one link of a dispatch chain.
type Dispatcher func(action interface{}) interface{}

// Connect binds the runtime to a store: subsequent put effects without
// an explicit channel go through store.Dispatch and select effects read
// store.GetState.
func (s *Service) Connect(store Store) {
	s.env.Dispatch = store.Dispatch
	s.env.GetState = store.GetState
}

// Middleware binds the runtime to a store and returns the dispatch-chain
// wrapper: the monitor is notified, next runs first so reducers observe
// the action before procedures react, then the action is put into the
// standard channel (through the user emitter, if any) and next's result
// is returned.
func (s *Service) Middleware(store Store) func(next Dispatcher) Dispatcher {
	s.Connect(store)
	return func(next Dispatcher) Dispatcher {
		return func(action interface{}) interface{} {
			raw := channel.Unwrap(action)
			if s.env.Monitor != nil {
				s.env.Monitor.ActionDispatched(raw)
			}
			result := next(raw)
			s.put(action)
			return result
		}
	}
}
