package execution

import (
	"sync"
	"sync/atomic"

	"github.com/viant/saga/model/effect"
	"github.com/viant/saga/progress"
)

type status int

const (
	statusRunning status = iota
	statusCancelled
	statusAborted
	statusDone
)

var taskSequence int64

func nextTaskID() int64 {
	return atomic.AddInt64(&taskSequence, 1)
}

// mainTask represents the driving iterator of a procedure inside its own
// fork queue.
type mainTask struct {
	meta     Meta
	status   status
	cont     func(result interface{}, err error)
	cancelFn func()
}

func (m *mainTask) setCont(cont func(result interface{}, err error)) { m.cont = cont }
func (m *mainTask) taskCancel()                                      { m.cancelFn() }
func (m *mainTask) taskName() string                                 { return m.meta.Name }

// Task is the externally observable handle of a running procedure.
type Task struct {
	id     int64
	meta   Meta
	isRoot bool
	env    *Env

	status  status
	result  interface{}
	err     error
	joiners []*joiner
	cont    func(result interface{}, err error)

	context *TaskContext
	queue   *forkQueue
	main    *mainTask

	cancelledDueToError []string
	crashedEffect       string

	futureMu sync.Mutex
	future   *Future
}

type joiner struct {
	task *Task
	cb   *callback
}

func newTask(env *Env, main *mainTask, parentContext *TaskContext, meta Meta, isRoot bool, cont *callback) *Task {
	t := &Task{
		id:      nextTaskID(),
		meta:    meta,
		isRoot:  isRoot,
		env:     env,
		status:  statusRunning,
		context: NewTaskContext(parentContext),
		main:    main,
	}
	if cont != nil {
		t.cont = cont.fn
		cont.cancel = t.cancel
	} else {
		t.cont = func(interface{}, error) {}
	}
	t.queue = newForkQueue(main, func() {
		t.cancelledDueToError = append(t.cancelledDueToError, t.queue.taskNames()...)
	}, t.end)
	env.Progress.Update(progress.Delta{Spawned: 1, Running: 1})
	return t
}

// ID returns the unique task identifier.
func (t *Task) ID() int64 { return t.id }

// Meta returns the task's name and source location.
func (t *Task) Meta() Meta { return t.meta }

// IsRunning reports whether the task has not yet terminated.
func (t *Task) IsRunning() bool { return t.status == statusRunning }

// IsCancelled reports whether the task was cancelled, including a task
// whose main procedure is unwinding cancellation cleanup.
func (t *Task) IsCancelled() bool {
	return t.status == statusCancelled ||
		(t.status == statusRunning && t.main.status == statusCancelled)
}

// IsAborted reports whether the task terminated with an error.
func (t *Task) IsAborted() bool { return t.status == statusAborted }

// Result returns the terminal value; meaningful only once terminated
// without error.
func (t *Task) Result() interface{} { return t.result }

// Err returns the terminal error; meaningful only once aborted.
func (t *Task) Err() error { return t.err }

// SetContext merges values into the task's context layer.
func (t *Task) SetContext(values map[string]interface{}) {
	t.context.Merge(values)
}

// Context returns the task's context layer.
func (t *Task) Context() *TaskContext { return t.context }

// Future returns a one-shot awaitable bound to the task's terminal
// status, allocated lazily. A cancelled task resolves it with the
// TaskCancel sentinel.
func (t *Task) Future() *Future {
	t.futureMu.Lock()
	defer t.futureMu.Unlock()
	if t.future == nil {
		t.future = NewFuture()
		switch t.status {
		case statusDone, statusCancelled:
			t.future.Resolve(t.result)
		case statusAborted:
			t.future.Reject(t.err)
		}
	}
	return t.future
}

func (t *Task) settleFuture(result interface{}, err error) {
	t.futureMu.Lock()
	future := t.future
	t.futureMu.Unlock()
	if future == nil {
		return
	}
	if err != nil {
		future.Reject(err)
		return
	}
	future.Resolve(result)
}

// Cancel requests cancellation. It is idempotent, safe from any
// goroutine and a no-op on a terminated task.
func (t *Task) Cancel() {
	t.env.Scheduler.Asap(t.cancel)
}

// cancel is the internal synchronous cancellation path: flip status,
// cancel every fork-queue member (cascading into the pending effect of
// each procedure) and report termination exactly once.
func (t *Task) cancel() {
	if t.status != statusRunning {
		return
	}
	t.status = statusCancelled
	t.queue.cancelAll()
	t.end(effect.TaskCancel, nil)
}

func (t *Task) setCont(cont func(result interface{}, err error)) { t.cont = cont }
func (t *Task) taskCancel()                                      { t.cancel() }
func (t *Task) taskName() string                                 { return t.meta.Name }

// end records the terminal outcome, settles the lazily allocated
// future, reports upward and releases the joiners.
func (t *Task) end(result interface{}, err error) {
	delta := progress.Delta{Running: -1}
	if err == nil {
		if result == effect.TaskCancel {
			t.status = statusCancelled
			delta.Cancelled = 1
		} else {
			if t.status != statusCancelled {
				t.status = statusDone
				delta.Completed = 1
			} else {
				delta.Cancelled = 1
			}
		}
		t.result = result
		t.settleFuture(result, nil)
	} else {
		t.status = statusAborted
		delta.Aborted = 1
		err = withFrame(err, Frame{
			Meta:           t.meta,
			Effect:         t.crashedEffect,
			CancelledTasks: t.cancelledDueToError,
		})
		t.err = err
		if t.isRoot {
			if t.env.OnError != nil {
				t.env.OnError(err)
			} else {
				t.env.Logf("saga: uncaught error: %v", err)
			}
		}
		t.settleFuture(nil, err)
	}
	t.env.Progress.Update(delta)
	t.cont(result, err)
	joiners := t.joiners
	t.joiners = nil
	for _, j := range joiners {
		j.cb.fn(result, err)
	}
}

var _ procTask = (*Task)(nil)
var _ procTask = (*mainTask)(nil)
