package execution

import (
	"fmt"
	"strings"
)

// Frame records one procedure on the abort path of an error.
type Frame struct {
	Meta           Meta
	Effect         string
	CancelledTasks []string
}

// ProcError decorates an uncaught procedure failure with the synthesized
// trace of nested procedure names and the failing effect.
type ProcError struct {
	Cause  error
	Frames []Frame
}

// Error formats the cause followed by the procedure trace.
func (e *ProcError) Error() string {
	var b strings.Builder
	b.WriteString(e.Cause.Error())
	for i, frame := range e.Frames {
		if i == 0 {
			fmt.Fprintf(&b, "\nThe above error occurred in task %s", frame.Meta)
		} else {
			fmt.Fprintf(&b, "\n    created by %s", frame.Meta)
		}
		if frame.Effect != "" {
			fmt.Fprintf(&b, "\n    when executing effect %s", frame.Effect)
		}
		if len(frame.CancelledTasks) > 0 {
			fmt.Fprintf(&b, "\n    Tasks cancelled due to error: %s", strings.Join(frame.CancelledTasks, ", "))
		}
	}
	return b.String()
}

// Unwrap exposes the original failure to errors.Is/As.
func (e *ProcError) Unwrap() error { return e.Cause }

// withFrame appends a procedure frame to err, wrapping it on first use.
func withFrame(err error, frame Frame) error {
	if decorated, ok := err.(*ProcError); ok {
		decorated.Frames = append(decorated.Frames, frame)
		return decorated
	}
	return &ProcError{Cause: err, Frames: []Frame{frame}}
}
