package rl

import "fmt"

// EncodingError reports a malformed or structurally inconsistent snapshot.
// It is fatal for the episode that produced the snapshot: callers discard
// the trajectory and report upward instead of feeding a default vector.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return "encoding: " + e.Reason
}

func encodingErrorf(format string, args ...any) *EncodingError {
	return &EncodingError{Reason: fmt.Sprintf(format, args...)}
}

// IllegalActionError reports an action index whose mask entry is false.
// Under correct orchestration it is unreachable; the adapter still checks
// before sending any choice to the server.
type IllegalActionError struct {
	Action int
	Mask   ActionMask
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %d for mask %v", e.Action, e.Mask)
}
