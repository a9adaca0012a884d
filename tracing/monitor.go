package tracing

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/saga/service/monitor"
)

// Monitor emits one span per effect: started when the effect triggers,
// ended when it resolves, rejects or is cancelled.
type Monitor struct {
	mu    sync.Mutex
	spans map[string]*Span
}

// NewMonitor creates a tracing-backed effect monitor.
func NewMonitor() *Monitor {
	return &Monitor{spans: make(map[string]*Span)}
}

// RootStarted emits a zero-length span marking a root procedure start.
func (m *Monitor) RootStarted(root *monitor.Root) {
	_, span := StartSpan(context.Background(), fmt.Sprintf("root %s", root.Name), "PRODUCER")
	EndSpan(span, nil)
}

// EffectTriggered opens a span for the effect.
func (m *Monitor) EffectTriggered(effect *monitor.Effect) {
	_, span := StartSpan(context.Background(), effect.Kind, "INTERNAL")
	span.WithAttributes(map[string]string{
		"effect.id":     effect.EffectID,
		"effect.parent": effect.ParentEffectID,
		"effect.label":  effect.Label,
	})
	m.mu.Lock()
	m.spans[effect.EffectID] = span
	m.mu.Unlock()
}

// EffectResolved closes the effect's span with OK status.
func (m *Monitor) EffectResolved(effectID string, result interface{}) {
	m.end(effectID, nil)
}

// EffectRejected closes the effect's span with error status.
func (m *Monitor) EffectRejected(effectID string, err error) {
	m.end(effectID, err)
}

// EffectCancelled closes the effect's span marked cancelled.
func (m *Monitor) EffectCancelled(effectID string) {
	m.mu.Lock()
	span := m.spans[effectID]
	delete(m.spans, effectID)
	m.mu.Unlock()
	if span == nil {
		return
	}
	span.WithAttributes(map[string]string{"effect.cancelled": "true"})
	EndSpan(span, nil)
}

// ActionDispatched emits a zero-length span for a dispatched action.
func (m *Monitor) ActionDispatched(action interface{}) {
	_, span := StartSpan(context.Background(), "dispatch", "PRODUCER")
	EndSpan(span, nil)
}

func (m *Monitor) end(effectID string, err error) {
	m.mu.Lock()
	span := m.spans[effectID]
	delete(m.spans, effectID)
	m.mu.Unlock()
	if span == nil {
		return
	}
	EndSpan(span, err)
}

var _ monitor.Monitor = (*Monitor)(nil)
