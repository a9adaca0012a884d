package execution

// procTask is a fork-queue member: the distinguished main task of a
// procedure or one of its attached children.
type procTask interface {
	setCont(cont func(result interface{}, err error))
	taskCancel()
	taskName() string
}

// forkQueue tracks a procedure's main task plus every attached child.
// The procedure completes when every member has terminated; it aborts
// the moment one member terminates with an error, cancelling the rest.
type forkQueue struct {
	mainTask  *mainTask
	tasks     []procTask
	result    interface{}
	completed bool
	onAbort   func()
	cont      func(result interface{}, err error)
}

func newForkQueue(main *mainTask, onAbort func(), cont func(result interface{}, err error)) *forkQueue {
	q := &forkQueue{mainTask: main, onAbort: onAbort, cont: cont}
	q.addTask(main)
	return q
}

func (q *forkQueue) abort(err error) {
	q.onAbort()
	q.cancelAll()
	q.cont(nil, err)
}

func (q *forkQueue) addTask(t procTask) {
	q.tasks = append(q.tasks, t)
	t.setCont(func(result interface{}, err error) {
		if q.completed {
			return
		}
		q.remove(t)
		t.setCont(func(interface{}, error) {})
		if err != nil {
			q.abort(err)
			return
		}
		if t == procTask(q.mainTask) {
			q.result = result
		}
		if len(q.tasks) == 0 {
			q.completed = true
			q.cont(q.result, nil)
		}
	})
}

func (q *forkQueue) remove(t procTask) {
	for i, candidate := range q.tasks {
		if candidate == t {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			return
		}
	}
}

func (q *forkQueue) cancelAll() {
	if q.completed {
		return
	}
	q.completed = true
	remaining := q.tasks
	q.tasks = nil
	for _, t := range remaining {
		t.setCont(func(interface{}, error) {})
		t.taskCancel()
	}
}

func (q *forkQueue) taskNames() []string {
	names := make([]string, 0, len(q.tasks))
	for _, t := range q.tasks {
		names = append(names, t.taskName())
	}
	return names
}
