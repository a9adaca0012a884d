package saga

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/saga/policy"
	"github.com/viant/saga/runtime/execution"
	"github.com/viant/saga/service/monitor"
	"github.com/viant/x"
)

func action(kind string) map[string]interface{} {
	return map[string]interface{}{"type": kind}
}

// fakeStore is a minimal host: a reducer log plus a dispatch chain built
// from the runtime middleware.
type fakeStore struct {
	state    map[string]interface{}
	reduced  []interface{}
	dispatch Dispatcher
}

func (s *fakeStore) Dispatch(a interface{}) interface{} { return s.dispatch(a) }
func (s *fakeStore) GetState() interface{}              { return s.state }

func newFakeStore(svc *Service) *fakeStore {
	store := &fakeStore{state: map[string]interface{}{}}
	reduce := func(a interface{}) interface{} {
		store.reduced = append(store.reduced, a)
		return a
	}
	store.dispatch = svc.Middleware(store)(reduce)
	return store
}

func TestService_RunAndDispatch(t *testing.T) {
	svc := New()
	task, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		return y.Take("PING")
	})
	require.NoError(t, err)
	require.True(t, task.IsRunning())

	svc.Dispatch(action("PING"))
	assert.False(t, task.IsRunning())
	assert.Equal(t, action("PING"), task.Result())
}

// TestService_MiddlewareOrdering verifies the adapter contract: reducers
// observe the action before procedures react, and the result of next is
// returned to the dispatcher.
func TestService_MiddlewareOrdering(t *testing.T) {
	svc := New()
	var log []string

	_, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		if _, err := y.Take("A"); err != nil {
			return nil, err
		}
		log = append(log, "saga")
		return nil, nil
	})
	require.NoError(t, err)

	store := newFakeStore(svc)
	wrapped := func(a interface{}) interface{} {
		result := store.Dispatch(a)
		return result
	}
	result := wrapped(action("A"))

	assert.Equal(t, action("A"), result)
	require.Len(t, store.reduced, 1)
	assert.Equal(t, []string{"saga"}, log)
}

// TestService_PutGoesThroughStore verifies put effects are routed
// through the connected store dispatch, so reducers see saga-emitted
// actions too.
func TestService_PutGoesThroughStore(t *testing.T) {
	svc := New()
	store := newFakeStore(svc)

	var got interface{}
	_, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		v, err := y.Take("B")
		got = v
		return v, err
	})
	require.NoError(t, err)

	_, err = svc.Run(func(y *execution.Yield) (interface{}, error) {
		if _, err := y.Take("A"); err != nil {
			return nil, err
		}
		return y.Put(action("B"))
	})
	require.NoError(t, err)

	store.Dispatch(action("A"))
	assert.Equal(t, []interface{}{action("A"), action("B")}, store.reduced)
	assert.Equal(t, action("B"), got)
}

func TestService_SelectReadsStoreState(t *testing.T) {
	svc := New()
	store := newFakeStore(svc)
	store.state["user"] = "ann"

	task, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		return y.Select(func(state map[string]interface{}) interface{} {
			return state["user"]
		})
	})
	require.NoError(t, err)
	assert.Equal(t, "ann", task.Result())
}

func TestService_SetContextSeedsRuns(t *testing.T) {
	svc := New()
	svc.SetContext(map[string]interface{}{"tenant": "acme"})
	task, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		return y.GetContext("tenant")
	})
	require.NoError(t, err)
	assert.Equal(t, "acme", task.Result())
}

type loginAction struct {
	User string
}

func TestService_TypedPattern(t *testing.T) {
	svc := New(WithExtensionTypes(x.NewType(reflect.TypeOf(loginAction{}), x.WithName("loginAction"))))
	task, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		return y.Take("loginAction")
	})
	require.NoError(t, err)

	svc.Dispatch(loginAction{User: "ann"})
	require.False(t, task.IsRunning())
	assert.Equal(t, loginAction{User: "ann"}, task.Result())
}

func TestService_PolicyDeniesEffect(t *testing.T) {
	svc := New(WithPolicy(&policy.Policy{Mode: policy.ModeAuto, BlockList: []string{"put"}}))
	task, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		_, err := y.Put(action("X"))
		if err != nil {
			return "denied", nil
		}
		return "allowed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "denied", task.Result())
}

func TestService_Emitter(t *testing.T) {
	svc := New(WithEmitter(func(put func(interface{})) func(interface{}) {
		return func(a interface{}) {
			if m, ok := a.(map[string]interface{}); ok && m["type"] == "IGNORED" {
				return
			}
			put(a)
		}
	}))
	var seen []interface{}
	_, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		for {
			v, err := y.Take(nil)
			if err != nil {
				return nil, err
			}
			seen = append(seen, v)
		}
	})
	require.NoError(t, err)

	svc.Dispatch(action("IGNORED"))
	svc.Dispatch(action("KEPT"))
	assert.Equal(t, []interface{}{action("KEPT")}, seen)
}

func TestService_OnErrorReceivesRootFailure(t *testing.T) {
	var reported error
	svc := New(WithOnError(func(err error) { reported = err }))
	boom := errors.New("boom")
	task, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		return nil, boom
	})
	require.NoError(t, err)
	assert.True(t, task.IsAborted())
	require.Error(t, reported)
	assert.True(t, errors.Is(reported, boom))
}

func TestService_RecorderMonitor(t *testing.T) {
	recorder := monitor.NewRecorder()
	svc := New(WithMonitor(recorder))
	_, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		return y.Call(func() string { return "ok" })
	})
	require.NoError(t, err)

	records, err := recorder.List(nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "call", records[0].Kind)
	assert.Equal(t, monitor.StatusResolved, records[0].Status)
}

func TestService_EventChannel(t *testing.T) {
	svc := New()
	var emit func(interface{})
	ec, err := svc.EventChannel(func(e func(interface{})) func() {
		emit = e
		return func() {}
	})
	require.NoError(t, err)

	var got interface{}
	task, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		v, err := y.TakeFrom(ec)
		got = v
		return v, err
	})
	require.NoError(t, err)

	emit("tick")
	require.False(t, task.IsRunning())
	assert.Equal(t, "tick", got)
}

func TestService_ProgressAccounting(t *testing.T) {
	svc := New()
	_, err := svc.Run(func(y *execution.Yield) (interface{}, error) {
		if _, err := y.Fork(func() string { return "child" }); err != nil {
			return nil, err
		}
		return nil, nil
	})
	require.NoError(t, err)
	snapshot := svc.Progress().Snapshot()
	assert.Equal(t, 2, snapshot.SpawnedTasks)
	assert.Equal(t, 2, snapshot.CompletedTasks)
	assert.Equal(t, 0, snapshot.RunningTasks)
}
