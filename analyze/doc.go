// Package analyze drives the syntax analysis of AV1 streams. It decodes
// the block structure of tiles, decodes the tiles of a frame on a pool of
// worker goroutines and walks complete low-overhead bitstreams.
//
// Errors inside a tile or a frame don't stop the analysis. They are
// reported as diagnostics and the analysis continues with the next tile
// or unit. Only errors of the container layer and cancellation end the
// walk of a stream.
package analyze
