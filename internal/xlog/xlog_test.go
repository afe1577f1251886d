package xlog

import (
	"bytes"
	"log"
	"testing"
)

func TestNilLogger(t *testing.T) {
	// must not panic
	Printf(nil, "%d", 1)
	Print(nil, 1)
	Println(nil, 1)
}

func TestLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	l := log.New(buf, "", 0)
	Printf(l, "tile %d: %s", 3, "ok")
	if got, want := buf.String(), "tile 3: ok\n"; got != want {
		t.Errorf("Printf wrote %q; want %q", got, want)
	}
}
