// Package block decodes the block structure of AV1 tiles: the recursive
// partition of superblocks into leaf blocks and the coding units decoded
// for every leaf.
//
// Decoding a tile is sequential. The symbol decoder, the quantizer index
// and the motion vector context all depend on the exact order of the
// blocks before. The quantizer index is threaded through the leaves as an
// accumulator: every decode step takes the current value and returns the
// value for the next block.
package block
