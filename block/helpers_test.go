package block

import (
	"testing"

	"github.com/ulikunitz/av1/ec"
)

// symbolWriter produces test streams for the decoder.
type symbolWriter struct {
	t *testing.T
	e *ec.Encoder
}

func newSymbolWriter(t *testing.T) *symbolWriter {
	return &symbolWriter{t: t, e: ec.NewEncoder()}
}

func (w *symbolWriter) sym(s int, cdf ec.CDF) *symbolWriter {
	w.t.Helper()
	if err := w.e.WriteSymbol(s, cdf); err != nil {
		w.t.Fatalf("WriteSymbol(%d, %v) error %s", s, cdf, err)
	}
	return w
}

func (w *symbolWriter) lit(x uint32, n int) *symbolWriter {
	w.t.Helper()
	if err := w.e.WriteLiteral(x, n); err != nil {
		w.t.Fatalf("WriteLiteral(%d, %d) error %s", x, n, err)
	}
	return w
}

func (w *symbolWriter) decoder() *ec.Decoder {
	w.t.Helper()
	d, err := ec.NewDecoder(w.e.Bytes())
	if err != nil {
		w.t.Fatalf("ec.NewDecoder error %s", err)
	}
	return d
}
