// Package saga provides a cooperative effect-driven task runtime.
//
// User procedures yield declarative effect descriptors (take, put, call,
// fork, race, …); the runtime interprets them: it suspends the
// procedure, performs the effect, resumes it with a value or an error
// and manages the resulting tree of concurrently executing child tasks.
// The engine comes with pluggable service layers such as:
//
//   - runtime/execution – the effect interpreter and task tree
//   - service/channel   – buffered, multicast and event channels
//   - service/matcher   – take-pattern compilation
//   - service/monitor   – effect lifecycle observers (tracing, bus)
//
// The runtime is designed to be embedded in host applications.
// End-users typically interact with it via the high-level Service façade
// exposed by the root package:
//
//	srv := saga.New()
//	task, _ := srv.Run(func(y *execution.Yield) (interface{}, error) {
//	    action, err := y.Take("PING")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return y.Put(map[string]interface{}{"type": "PONG", "from": action})
//	})
//	srv.Dispatch(map[string]interface{}{"type": "PING"})
//	_ = task
//
// For more details see the individual sub-packages.
package saga
