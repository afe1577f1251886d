// Package ec implements the AV1 symbol decoder, the entropy coding process
// defined in section 8.2 of the AV1 specification, together with the
// probability tables it is driven by.
//
// The Decoder is stateful: the result of every read depends on all reads
// before it. A Decoder must therefore be used by a single goroutine for a
// single tile.
//
// The Encoder is the exact inverse of the Decoder. It is used to create
// test streams.
package ec
