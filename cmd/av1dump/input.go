package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// maxInput limits the size of the streams read.
const maxInput = 1 << 30

var xzMagic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// readStream reads the complete stream from r. Streams compressed with xz
// are decompressed.
func readStream(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	var in io.Reader = br
	if bytes.Equal(magic, xzMagic) {
		if in, err = xz.NewReader(br); err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}
	}
	data, err := io.ReadAll(io.LimitReader(in, maxInput+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxInput {
		return nil, fmt.Errorf("stream larger than %d bytes", maxInput)
	}
	return data, nil
}

// readFile reads the stream from the named file; "-" is standard input.
func readFile(name string) ([]byte, error) {
	if name == "-" {
		return readStream(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readStream(f)
}
