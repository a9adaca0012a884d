package monitor

import (
	"context"

	"github.com/viant/saga/service/dao"
	"github.com/viant/saga/service/dao/criteria"
	"github.com/viant/saga/service/dao/store"
)

// Record statuses.
const (
	StatusTriggered = "triggered"
	StatusResolved  = "resolved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Record retains the lifecycle of one effect for later inspection.
type Record struct {
	ID     string
	Kind   string
	Label  string
	Status string
	Result interface{}
	Error  string
}

// Recorder keeps one record per effect in a generic in-memory store;
// tests and debugging sessions list them to reconstruct what a run did.
type Recorder struct {
	records *store.MemoryStore[string, Record]
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		records: store.NewMemoryStore[string, Record](func(r *Record) string { return r.ID }),
	}
}

func (r *Recorder) RootStarted(root *Root) {}

func (r *Recorder) EffectTriggered(effect *Effect) {
	_ = r.records.Save(context.Background(), &Record{
		ID:     effect.EffectID,
		Kind:   effect.Kind,
		Label:  effect.Label,
		Status: StatusTriggered,
	})
}

func (r *Recorder) EffectResolved(effectID string, result interface{}) {
	r.transition(effectID, StatusResolved, result, "")
}

func (r *Recorder) EffectRejected(effectID string, err error) {
	message := ""
	if err != nil {
		message = err.Error()
	}
	r.transition(effectID, StatusRejected, nil, message)
}

func (r *Recorder) EffectCancelled(effectID string) {
	r.transition(effectID, StatusCancelled, nil, "")
}

func (r *Recorder) ActionDispatched(action interface{}) {}

func (r *Recorder) transition(effectID, status string, result interface{}, message string) {
	ctx := context.Background()
	record, err := r.records.Load(ctx, effectID)
	if err != nil || record == nil {
		return
	}
	record.Status = status
	record.Result = result
	record.Error = message
	_ = r.records.Save(ctx, record)
}

// List returns recorded effects, optionally filtered by Kind.
func (r *Recorder) List(ctx context.Context, parameters ...*dao.Parameter) ([]*Record, error) {
	records, err := r.records.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(records))
	for _, record := range records {
		if !criteria.FilterByKind(record.Kind, parameters) {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

var _ Monitor = (*Recorder)(nil)
