package saga

import (
	"fmt"
	"path"

	"github.com/viant/saga/extension"
	"github.com/viant/saga/model/effect"
	"github.com/viant/saga/policy"
	"github.com/viant/saga/progress"
	"github.com/viant/saga/runtime/execution"
	"github.com/viant/saga/service/channel"
	"github.com/viant/saga/service/event"
	"github.com/viant/saga/service/messaging"
	"github.com/viant/saga/service/messaging/fs"
	"github.com/viant/saga/service/messaging/memory"
	"github.com/viant/saga/service/monitor"
)

// Service is the high-level façade over the effect runtime: it owns the
// environment shared by every procedure of a run (standard channel,
// scheduler, monitors, policy) and exposes the runner and the dispatch
// middleware.
type Service struct {
	config      *Config
	env         *execution.Env
	types       *extension.Types
	progress    *progress.Progress
	monitors    monitor.Multi
	events      *event.Service
	emitter     func(put func(interface{})) func(interface{})
	emit        func(interface{})
	rootContext map[string]interface{}
	policy      *policy.Policy
}

// New creates a runtime service.
func New(options ...Option) *Service {
	s := &Service{
		config:      DefaultConfig(),
		types:       extension.NewTypes(),
		env:         &execution.Env{},
		rootContext: map[string]interface{}{},
	}
	for _, option := range options {
		option(s)
	}
	s.init()
	return s
}

func (s *Service) init() {
	channel.DevMode = s.config.DevMode
	if s.progress == nil {
		s.progress = progress.New("saga")
	}
	env := s.env
	env.Types = s.types
	env.Progress = s.progress
	env.Normalize()
	if bus := s.busMonitor(); bus != nil {
		s.monitors = append(s.monitors, bus)
	}
	switch len(s.monitors) {
	case 0:
	case 1:
		env.Monitor = s.monitors[0]
	default:
		env.Monitor = s.monitors
	}
	if s.policy == nil && s.config.Policy != nil {
		s.policy = policy.FromConfig(s.config.Policy)
	}
	if s.policy != nil {
		env.Middlewares = append([]execution.EffectMiddleware{policyMiddleware(s.policy)}, env.Middlewares...)
	}
	std := env.StdChannel
	if s.emitter != nil {
		s.emit = s.emitter(func(action interface{}) { std.Put(action) })
	} else {
		s.emit = func(action interface{}) { std.Put(action) }
	}
	env.Dispatch = s.Dispatch
}

// busMonitor builds the configured event-bus monitor, if any.
func (s *Service) busMonitor() monitor.Monitor {
	vendor := s.config.Monitor.Vendor
	if vendor == "" {
		return nil
	}
	var err error
	switch vendor {
	case "memory":
		s.events, err = event.New(messaging.Vendor(vendor),
			event.WithNewMemoryQueueConfig(func(name string) memory.Config {
				return memory.DefaultConfig()
			}))
	case "fs":
		basePath := s.config.Monitor.BasePath
		s.events, err = event.New(messaging.Vendor(vendor),
			event.WithNewFsQueueConfig(func(name string) fs.Config {
				config := fs.DefaultConfig()
				config.BasePath = path.Join(basePath, name)
				return config
			}))
	default:
		err = fmt.Errorf("unsupported monitor vendor: %s", vendor)
	}
	if err != nil {
		s.env.Logf("saga: monitor bus disabled: %v", err)
		return nil
	}
	bus, err := monitor.NewBusWithService(s.events)
	if err != nil {
		s.env.Logf("saga: monitor bus disabled: %v", err)
		return nil
	}
	return bus
}

// Run starts a root procedure from a procedure-shaped function (first
// parameter *execution.Yield) or an iterator, and returns its task
// handle.
func (s *Service) Run(fn interface{}, args ...interface{}) (*execution.Task, error) {
	return execution.Run(s.env, fn, args, execution.WithContext(s.contextSnapshot()))
}

// RunIterator starts a root procedure over an explicit iterator.
func (s *Service) RunIterator(iterator execution.Iterator, options ...execution.RunOption) *execution.Task {
	options = append([]execution.RunOption{execution.WithContext(s.contextSnapshot())}, options...)
	return execution.RunIterator(s.env, iterator, options...)
}

func (s *Service) contextSnapshot() map[string]interface{} {
	if len(s.rootContext) == 0 {
		return nil
	}
	snapshot := make(map[string]interface{}, len(s.rootContext))
	for key, value := range s.rootContext {
		snapshot[key] = value
	}
	return snapshot
}

// SetContext merges values into the context seeded into subsequently
// started root procedures.
func (s *Service) SetContext(values map[string]interface{}) {
	for key, value := range values {
		s.rootContext[key] = value
	}
}

// Dispatch feeds an action into the standard channel, notifying the
// monitor. It is the default put route when no store is connected.
func (s *Service) Dispatch(action interface{}) interface{} {
	if s.env.Monitor != nil {
		s.env.Monitor.ActionDispatched(channel.Unwrap(action))
	}
	s.put(action)
	return action
}

// put routes an action into the standard channel; actions enveloped by
// an internal put bypass the user emitter so they keep their synchronous
// delivery guarantee.
func (s *Service) put(action interface{}) {
	if _, ok := action.(channel.SagaAction); ok {
		s.env.StdChannel.Put(action)
		return
	}
	s.emit(action)
}

// EventChannel adapts an external subscription into a channel whose
// emissions are serialised with effect interpretation.
func (s *Service) EventChannel(subscribe channel.Subscribe, options ...channel.EventOption) (*channel.EventChannel, error) {
	options = append(options, channel.WithEmitGate(s.env.Scheduler.Asap))
	return channel.NewEventChannel(subscribe, options...)
}

// StdChannel returns the standard channel shared by every procedure.
func (s *Service) StdChannel() *channel.Standard {
	return s.env.StdChannel
}

// Env exposes the runtime environment for advanced integrations.
func (s *Service) Env() *execution.Env {
	return s.env
}

// Progress returns the run's task counters.
func (s *Service) Progress() *progress.Progress {
	return s.progress
}

// Types returns the action type registry.
func (s *Service) Types() *extension.Types {
	return s.types
}

// Events returns the event-bus service when a monitor vendor is
// configured.
func (s *Service) Events() *event.Service {
	return s.events
}

// policyMiddleware gates effect descriptors through a policy; a denied
// effect resolves as an error the procedure can catch.
func policyMiddleware(p *policy.Policy) execution.EffectMiddleware {
	return func(next func(interface{})) func(interface{}) {
		return func(eff interface{}) {
			descriptor, ok := eff.(*effect.Effect)
			if !ok || p.Decide(descriptor.Kind.String(), descriptor.Payload) {
				next(eff)
				return
			}
			kind := descriptor.Kind.String()
			next(effect.Call(func() (interface{}, error) {
				return nil, fmt.Errorf("effect %s denied by policy", kind)
			}))
		}
	}
}
