package obu

import "fmt"

// Error attaches the stream offset of the unit that failed to parse.
type Error struct {
	Offset int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("obu: offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }
