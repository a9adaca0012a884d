package effect

type sentinel struct{ name string }

func (s *sentinel) String() string { return s.name }

// END terminates a channel. Every outstanding take on the channel
// observes it exactly once. Comparable by identity only.
var END = &sentinel{name: "END"}

// TaskCancel is injected into a procedure to signal cancellation. It is
// a value, not an error; cleanup clauses observe it on the return path.
var TaskCancel = &sentinel{name: "TASK_CANCEL"}

// SelfCancellation, passed to a cancel effect, cancels the calling task.
var SelfCancellation = &sentinel{name: "SELF_CANCELLATION"}

// IsEnd reports whether v is the channel terminator.
func IsEnd(v interface{}) bool { return v == END }
