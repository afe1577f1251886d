package analyze

import (
	"context"
	"fmt"
	"io"

	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/block"
	"github.com/ulikunitz/av1/ec"
	"github.com/ulikunitz/av1/internal/hash"
	"github.com/ulikunitz/av1/internal/xlog"
	"github.com/ulikunitz/av1/memo"
	"github.com/ulikunitz/av1/obu"
)

// Diagnostic reports an error that has been skipped.
type Diagnostic struct {
	// Offset of the unit in the stream; -1 if unknown.
	Offset int
	// Tile number; -1 if the error doesn't concern a single tile.
	Tile int
	Err  error
}

func (d Diagnostic) Error() string {
	switch {
	case d.Offset >= 0 && d.Tile >= 0:
		return fmt.Sprintf("unit at offset %d, tile %d: %v",
			d.Offset, d.Tile, d.Err)
	case d.Offset >= 0:
		return fmt.Sprintf("unit at offset %d: %v", d.Offset, d.Err)
	case d.Tile >= 0:
		return fmt.Sprintf("tile %d: %v", d.Tile, d.Err)
	}
	return d.Err.Error()
}

// Unwrap returns the underlying error.
func (d Diagnostic) Unwrap() error { return d.Err }

// TileResult is the result of decoding a tile.
type TileResult struct {
	Num  int
	Rect block.Rect
	// Superblocks are only provided if the tile has actually been
	// decoded and not been taken from the cache.
	Superblocks []*block.Superblock
	// Units contains the coding units of all superblocks in frame
	// coordinates. If Err is set it contains the units of the
	// superblocks decoded before the error.
	Units  []block.CodingUnit
	Cached bool
	Err    error
}

// MotionVectors returns the motion vectors of the inter units of the tile.
func (r *TileResult) MotionVectors() []block.MVEntry {
	return block.MotionVectors(r.Units)
}

// FrameResult is the result of decoding the tiles of a frame. In a stream
// every tile group unit produces its own frame result.
type FrameResult struct {
	// Offset of the unit in the stream; -1 if unknown.
	Offset      int
	Header      obu.FrameHeaderPrefix
	Params      FrameParams
	Tiles       []TileResult
	Diagnostics []Diagnostic
}

// Units returns the coding units of all tiles.
func (f *FrameResult) Units() []block.CodingUnit {
	var units []block.CodingUnit
	for i := range f.Tiles {
		units = append(units, f.Tiles[i].Units...)
	}
	return units
}

// MotionVectors returns the motion vectors of all tiles.
func (f *FrameResult) MotionVectors() []block.MVEntry {
	return block.MotionVectors(f.Units())
}

// StreamResult is the result of analyzing a stream.
type StreamResult struct {
	Units       []obu.Unit
	Sequence    *obu.SeqHeader
	Frames      []FrameResult
	Diagnostics []Diagnostic
}

// Analyzer decodes tiles, frames and streams. It can be used by multiple
// goroutines concurrently; all of them share the coding unit cache.
type Analyzer struct {
	cfg  Config
	memo *memo.Memo
}

// New creates a new Analyzer.
func New(cfg Config) (*Analyzer, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	a := &Analyzer{cfg: cfg}
	if !cfg.DisableCache {
		var err error
		if a.memo, err = memo.New(cfg.memoConfig()); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// CacheStats returns the statistics of the coding unit cache. It returns
// zero values if the cache is disabled.
func (a *Analyzer) CacheStats() memo.Stats {
	if a.memo == nil {
		return memo.Stats{}
	}
	return a.memo.Stats()
}

// ClearCache removes all entries from the coding unit cache.
func (a *Analyzer) ClearCache() {
	if a.memo != nil {
		a.memo.Clear()
	}
}

func (a *Analyzer) report(d Diagnostic) {
	xlog.Printf(a.cfg.Logger, "analyze: %v\n", d)
}

// decodeSuperblocks decodes the superblocks of a tile in raster order. On
// error it returns the superblocks decoded before.
func (a *Analyzer) decodeSuperblocks(tile []byte, p *TileParams) (
	[]*block.Superblock, error) {

	d, err := ec.NewDecoder(tile)
	if err != nil {
		return nil, err
	}
	mvc := block.NewMVContext()
	qp := p.BaseQP
	sb := p.SuperblockSize
	r := p.Rect
	// The tile area comes from the stream; the slice grows with the
	// superblocks actually decoded.
	var sbs []*block.Superblock
	for y := r.Y; y < r.Y+r.H; y += sb {
		for x := r.X; x < r.X+r.W; x += sb {
			var s *block.Superblock
			s, qp, err = block.ParseSuperblock(d, a.cfg.Model, x, y, sb,
				p.Context, qp, mvc)
			if err != nil {
				return sbs, fmt.Errorf(
					"analyze: superblock (%d,%d): %w", x, y, err)
			}
			sbs = append(sbs, s)
		}
	}
	return sbs, nil
}

// shift moves all units by (dx, dy).
func shift(units []block.CodingUnit, dx, dy int) {
	for i := range units {
		units[i].X += dx
		units[i].Y += dy
	}
}

func collectUnits(sbs []*block.Superblock) []block.CodingUnit {
	n := 0
	for _, s := range sbs {
		n += len(s.Units)
	}
	units := make([]block.CodingUnit, 0, n)
	for _, s := range sbs {
		units = append(units, s.Units...)
	}
	return units
}

// DecodeTile decodes the tile payload with the given parameters. Errors are
// returned in the Err field of the result. If the cache is enabled the
// coding units are taken from it or stored in it.
func (a *Analyzer) DecodeTile(tile []byte, p TileParams) TileResult {
	r := TileResult{Num: p.Num, Rect: p.Rect}
	if err := p.Verify(); err != nil {
		r.Err = err
		return r
	}
	parsed := false
	var partial []block.CodingUnit
	parse := func() ([]block.CodingUnit, error) {
		parsed = true
		sbs, err := a.decodeSuperblocks(tile, &p)
		r.Superblocks = sbs
		units := collectUnits(sbs)
		shift(units, -p.Rect.X, -p.Rect.Y)
		if err != nil {
			partial = units
			return nil, err
		}
		return units, nil
	}
	key := hash.Mix(memo.Key(tile, p.BaseQP) ^ p.fingerprint())
	units, err := a.memo.GetOrParse(key, parse)
	if err != nil {
		r.Err = err
		units = partial
	}
	shift(units, p.Rect.X, p.Rect.Y)
	r.Units = units
	r.Cached = !parsed
	xlog.Printf(debug, "tile %d %v: %d units, cached %t, err %v\n",
		r.Num, r.Rect, len(r.Units), r.Cached, r.Err)
	return r
}

type tileTask struct {
	index  int
	data   []byte
	params TileParams
}

type tileDone struct {
	index  int
	result TileResult
}

func tileWorker(ctx context.Context, a *Analyzer, taskCh <-chan tileTask,
	doneCh chan<- tileDone) {

	for {
		var (
			tsk tileTask
			ok  bool
		)
		select {
		case <-ctx.Done():
			return
		case tsk, ok = <-taskCh:
			if !ok {
				return
			}
		}
		r := a.DecodeTile(tsk.data, tsk.params)
		select {
		case <-ctx.Done():
			return
		case doneCh <- tileDone{index: tsk.index, result: r}:
		}
	}
}

// DecodeFrame decodes the tiles of a frame concurrently. The tile numbers
// determine the areas of the tiles. Tile errors are reported as
// diagnostics; an error is only returned for invalid frame parameters or
// if the context is cancelled.
func (a *Analyzer) DecodeFrame(ctx context.Context, p FrameParams,
	tiles []obu.Tile) (FrameResult, error) {

	if err := p.Verify(); err != nil {
		return FrameResult{}, err
	}
	fr := FrameResult{
		Offset: -1,
		Params: p,
		Tiles:  make([]TileResult, len(tiles)),
	}
	if len(tiles) == 0 {
		return fr, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	taskCh := make(chan tileTask, len(tiles))
	doneCh := make(chan tileDone, len(tiles))
	workers := min(a.cfg.Workers, len(tiles))
	for i := 0; i < workers; i++ {
		go tileWorker(ctx, a, taskCh, doneCh)
	}
	pending := 0
	for i, t := range tiles {
		tp, err := p.TileParams(t.Num)
		if err != nil {
			fr.Tiles[i] = TileResult{Num: t.Num, Err: err}
			continue
		}
		taskCh <- tileTask{index: i, data: t.Data, params: tp}
		pending++
	}
	close(taskCh)
	for ; pending > 0; pending-- {
		select {
		case <-ctx.Done():
			return fr, ctx.Err()
		case d := <-doneCh:
			fr.Tiles[d.index] = d.result
		}
	}

	for i := range fr.Tiles {
		t := &fr.Tiles[i]
		if t.Err == nil {
			continue
		}
		d := Diagnostic{Offset: -1, Tile: t.Num, Err: t.Err}
		a.report(d)
		fr.Diagnostics = append(fr.Diagnostics, d)
	}
	return fr, nil
}

// AnalyzeStream walks the units of a low-overhead bitstream and decodes the
// tiles of all frames. It returns an error if a unit can't be parsed or
// the context is cancelled; the result contains everything analyzed
// before. Errors inside units are reported as diagnostics.
func (a *Analyzer) AnalyzeStream(ctx context.Context, data []byte,
	p StreamParams) (StreamResult, error) {

	s := &streamState{a: a, p: &p}
	r := obu.NewReader(data, a.cfg.Budget)
	for {
		if err := ctx.Err(); err != nil {
			return s.res, err
		}
		u, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s.res, err
		}
		s.res.Units = append(s.res.Units, u)
		if err = s.unit(ctx, u); err != nil {
			return s.res, err
		}
	}
	return s.res, nil
}

// streamState tracks the headers active while a stream is walked.
type streamState struct {
	a   *Analyzer
	p   *StreamParams
	res StreamResult
	// hdr is the frame header for following tile group units.
	hdr *obu.FrameHeaderPrefix
}

func (s *streamState) diagnose(u obu.Unit, err error) {
	d := Diagnostic{Offset: u.Offset, Tile: -1, Err: err}
	s.a.report(d)
	s.res.Diagnostics = append(s.res.Diagnostics, d)
}

func (s *streamState) frameHeader(u obu.Unit) (obu.FrameHeaderPrefix, bool) {
	if s.res.Sequence == nil {
		s.diagnose(u, fmt.Errorf(
			"analyze: %v without sequence header: %w",
			u.Header.Type, av1.ErrMalformed))
		return obu.FrameHeaderPrefix{}, false
	}
	h, err := obu.ParseFrameHeaderPrefix(s.res.Sequence, u.Payload)
	if err != nil {
		s.diagnose(u, err)
		return obu.FrameHeaderPrefix{}, false
	}
	return h, true
}

// unit processes a single unit. Only cancellation is returned as error.
func (s *streamState) unit(ctx context.Context, u obu.Unit) error {
	switch u.Header.Type {
	case obu.SequenceHeader:
		seq, err := obu.ParseSequenceHeader(u.Payload)
		if err != nil {
			s.diagnose(u, err)
			return nil
		}
		s.res.Sequence = seq
	case obu.TemporalDelimiter:
		s.hdr = nil
	case obu.FrameHeader:
		s.hdr = nil
		h, ok := s.frameHeader(u)
		if !ok || h.ShowExistingFrame {
			return nil
		}
		s.hdr = &h
	case obu.TileGroup:
		if s.hdr == nil {
			s.diagnose(u, fmt.Errorf(
				"analyze: tile group without frame header: %w",
				av1.ErrMalformed))
			return nil
		}
		return s.tiles(ctx, u, *s.hdr, u.Payload)
	case obu.Frame:
		s.hdr = nil
		h, ok := s.frameHeader(u)
		if !ok {
			return nil
		}
		n := s.p.FrameHeaderSize
		if h.ShowExistingFrame || n <= 0 || n > len(u.Payload) {
			s.diagnose(u, fmt.Errorf(
				"analyze: frame header size %d of %d bytes: %w",
				n, len(u.Payload), av1.ErrMalformed))
			return nil
		}
		return s.tiles(ctx, u, h, u.Payload[n:])
	}
	return nil
}

// tiles decodes the tile group in data.
func (s *streamState) tiles(ctx context.Context, u obu.Unit,
	h obu.FrameHeaderPrefix, data []byte) error {

	fp := s.p.frameParams(s.res.Sequence, h)
	tiles, err := obu.SplitTileGroup(data, fp.Tiles)
	if err != nil {
		s.diagnose(u, err)
		if len(tiles) == 0 {
			return nil
		}
	}
	fr, err := s.a.DecodeFrame(ctx, fp, tiles)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		s.diagnose(u, err)
		return nil
	}
	fr.Offset = u.Offset
	fr.Header = h
	for i := range fr.Diagnostics {
		fr.Diagnostics[i].Offset = u.Offset
	}
	s.res.Diagnostics = append(s.res.Diagnostics, fr.Diagnostics...)
	s.res.Frames = append(s.res.Frames, fr)
	return nil
}
