package monitor

import (
	"context"

	"github.com/viant/saga/service/event"
)

// Lifecycle stages published on the event bus.
const (
	EventRootStarted    = "rootStarted"
	EventTriggered      = "effectTriggered"
	EventResolved       = "effectResolved"
	EventRejected       = "effectRejected"
	EventCancelled      = "effectCancelled"
	EventActionDispatch = "actionDispatched"
)

// Bus publishes effect lifecycle events to an event publisher so that
// listeners on the configured queue (memory or filesystem) can observe a
// run.
type Bus struct {
	publisher *event.Publisher[*Effect]
	ctx       context.Context
}

// NewBus creates a bus monitor over a publisher.
func NewBus(publisher *event.Publisher[*Effect]) *Bus {
	return &Bus{publisher: publisher, ctx: context.Background()}
}

// NewBusWithService resolves the *Effect publisher from an event
// service.
func NewBusWithService(service *event.Service) (*Bus, error) {
	publisher, err := event.PublisherOf[*Effect](service)
	if err != nil {
		return nil, err
	}
	return NewBus(publisher), nil
}

func (b *Bus) publish(eventType string, data *Effect) {
	eCtx := &event.Context{EventType: eventType}
	if data != nil {
		eCtx.EffectID = data.EffectID
		eCtx.EffectKind = data.Kind
	}
	_ = b.publisher.Publish(b.ctx, event.NewEvent(eCtx, data))
}

func (b *Bus) RootStarted(root *Root) {
	b.publish(EventRootStarted, &Effect{EffectID: root.EffectID, Label: root.Name})
}

func (b *Bus) EffectTriggered(effect *Effect) {
	b.publish(EventTriggered, effect)
}

func (b *Bus) EffectResolved(effectID string, result interface{}) {
	b.publish(EventResolved, &Effect{EffectID: effectID})
}

func (b *Bus) EffectRejected(effectID string, err error) {
	evt := &Effect{EffectID: effectID}
	b.publish(EventRejected, evt)
}

func (b *Bus) EffectCancelled(effectID string) {
	b.publish(EventCancelled, &Effect{EffectID: effectID})
}

func (b *Bus) ActionDispatched(action interface{}) {
	b.publish(EventActionDispatch, &Effect{Effect: action})
}

var _ Monitor = (*Bus)(nil)
