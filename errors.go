package av1

import "errors"

// The error taxonomy shared by all parsing packages.
var (
	// ErrTruncated reports that the input ended at a header, size or
	// payload boundary or that the symbol decoder ran out of bits.
	ErrTruncated = errors.New("av1: truncated input")
	// ErrMalformed reports syntax that cannot be valid, for instance a
	// set forbidden bit or a symbol without meaning.
	ErrMalformed = errors.New("av1: malformed syntax")
	// ErrOverflow reports a variable-length integer that is too long or
	// too large.
	ErrOverflow = errors.New("av1: value overflow")
	// ErrResourceRejected reports an allocation refused by a budget.
	ErrResourceRejected = errors.New("av1: resource budget exceeded")
)
