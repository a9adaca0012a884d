// Package monitor defines the observer contract for effect and action
// lifecycle events. A monitor receives a notification when an effect is
// triggered, resolved, rejected or cancelled, when a root procedure
// starts and when an action flows through the dispatcher. Monitors must
// be fast; they run inline with effect interpretation.
package monitor

import (
	"time"

	"github.com/viant/saga/internal/clock"
)

// Effect describes a triggered effect.
type Effect struct {
	EffectID       string      `json:"effectId"`
	ParentEffectID string      `json:"parentEffectId,omitempty"`
	Label          string      `json:"label,omitempty"`
	Kind           string      `json:"kind"`
	Effect         interface{} `json:"effect,omitempty"`
	TriggeredAt    time.Time   `json:"triggeredAt"`
}

// Root describes a started root procedure.
type Root struct {
	EffectID string        `json:"effectId"`
	Name     string        `json:"name"`
	Args     []interface{} `json:"args,omitempty"`
}

// Monitor observes runtime lifecycle events.
type Monitor interface {
	RootStarted(root *Root)
	EffectTriggered(effect *Effect)
	EffectResolved(effectID string, result interface{})
	EffectRejected(effectID string, err error)
	EffectCancelled(effectID string)
	ActionDispatched(action interface{})
}

// NewEffect creates an effect notification stamped with the current
// clock time.
func NewEffect(effectID, parentEffectID, label, kind string, payload interface{}) *Effect {
	return &Effect{
		EffectID:       effectID,
		ParentEffectID: parentEffectID,
		Label:          label,
		Kind:           kind,
		Effect:         payload,
		TriggeredAt:    clock.Now(),
	}
}

// Multi fans notifications out to several monitors.
type Multi []Monitor

func (m Multi) RootStarted(root *Root) {
	for _, one := range m {
		one.RootStarted(root)
	}
}

func (m Multi) EffectTriggered(effect *Effect) {
	for _, one := range m {
		one.EffectTriggered(effect)
	}
}

func (m Multi) EffectResolved(effectID string, result interface{}) {
	for _, one := range m {
		one.EffectResolved(effectID, result)
	}
}

func (m Multi) EffectRejected(effectID string, err error) {
	for _, one := range m {
		one.EffectRejected(effectID, err)
	}
}

func (m Multi) EffectCancelled(effectID string) {
	for _, one := range m {
		one.EffectCancelled(effectID)
	}
}

func (m Multi) ActionDispatched(action interface{}) {
	for _, one := range m {
		one.ActionDispatched(action)
	}
}
