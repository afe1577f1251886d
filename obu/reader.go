package obu

import "io"

// Reader iterates over the units of a buffer. After the first error has
// been returned the iteration is terminated; the units returned before
// the error remain valid.
type Reader struct {
	data   []byte
	off    int
	budget Budget
	err    error
	done   bool
}

// NewReader creates a reader for the units in p. The budget may be nil.
func NewReader(p []byte, b Budget) *Reader {
	return &Reader{data: p, budget: b}
}

// Next returns the next unit. It returns io.EOF at the end of the buffer
// and after an error has been returned once.
func (r *Reader) Next() (u Unit, err error) {
	if r.done || r.off >= len(r.data) {
		r.done = true
		return Unit{}, io.EOF
	}
	u, n, err := ParseOne(r.data, r.off, r.budget)
	if err != nil {
		r.err = err
		r.done = true
		return Unit{}, err
	}
	r.off += n
	return u, nil
}

// Offset returns the offset of the next unit to parse.
func (r *Reader) Offset() int { return r.off }

// Err returns the error that terminated the iteration, if any.
func (r *Reader) Err() error { return r.err }
