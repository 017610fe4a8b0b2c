package engine

import "fmt"

// ModelInvocationError reports a failed or empty language-model completion.
// It never escapes SendMessage; the engine substitutes a fallback response
// and sets the error flag instead.
type ModelInvocationError struct {
	Provider string
	Err      error
}

func (e *ModelInvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model invocation failed (%s): %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("model invocation failed (%s): empty response", e.Provider)
}

func (e *ModelInvocationError) Unwrap() error { return e.Err }

// StateCorruptionError reports a broken thread/message invariant, such as an
// append against a thread that vanished mid-turn. These fail closed.
type StateCorruptionError struct {
	ThreadID string
	Op       string
	Err      error
}

func (e *StateCorruptionError) Error() string {
	return fmt.Sprintf("thread state corrupted (%s, thread %s): %v", e.Op, e.ThreadID, e.Err)
}

func (e *StateCorruptionError) Unwrap() error { return e.Err }
