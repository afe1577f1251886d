// Package obu parses the open bitstream units of an AV1 low-overhead
// bitstream.
//
// A unit starts with a one or two byte header followed, if the has_size
// flag is set, by the leb128 encoded payload size. Units without a size
// field extend to the end of the buffer.
//
// The package provides the whole-buffer function ParseAll and the
// streaming Reader. Both stop at the first error; units returned before
// remain valid. Additionally the package parses the leading fields of
// sequence and frame headers and splits tile group payloads into tiles.
package obu
