// Package av1 is the root of a syntax analysis core for AV1 low-overhead
// bitstreams. The core never reconstructs pixels. It exposes the structure
// of a stream: open bitstream units, partition trees, coding units with
// their prediction modes, quantizer indexes and motion vectors.
//
// The packages build on each other:
//
//	leb128   variable-length sizes
//	obu      open bitstream units, sequence headers, tile groups
//	ec       the AV1 symbol decoder and its probability tables
//	block    partition trees, coding units and superblocks
//	memo     a cache of decoded coding units keyed by tile content
//	analyze  tile, frame and stream level orchestration
//
// All errors returned by the packages wrap one of the sentinel errors
// defined here and can be tested with errors.Is.
package av1
