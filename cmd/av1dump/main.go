// Command av1dump prints the syntax structure of AV1 low-overhead
// bitstreams.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/ogier/pflag"

	"github.com/ulikunitz/av1/analyze"
	"github.com/ulikunitz/av1/memo"
	"github.com/ulikunitz/av1/obu"
)

const usageStr = `Usage: av1dump [OPTION]... [FILE]...
Print the units, the sequence header and optionally the coding units of
AV1 low-overhead bitstreams. Files compressed with xz are decompressed.

  -h, --help               give this help
  -t, --tiles              decode tiles and print coding units
  -m, --mvs                print the motion vectors of decoded tiles
  -q, --base-qp N          base quantizer index of all frames (default 128)
      --delta-q            enable quantizer deltas in coding units
      --delta-q-res N      log2 of the quantizer delta scale
      --hp                 allow high precision motion vectors
      --frame-header N     frame header size in bytes for frame units
      --tile-cols N        number of tile columns (power of two)
      --tile-rows N        number of tile rows (power of two)
      --tile-size-bytes N  size of the tile size fields (default 4)
  -w, --workers N          number of tile workers
      --no-cache           disable the coding unit cache
      --eviction POLICY    cache eviction: approximate or lru
      --max-unit N         reject units larger than N bytes
  -v, --verbose            print diagnostics

With no file, or when FILE is -, read standard input.
`

func usage(w io.Writer) {
	fmt.Fprint(w, usageStr)
}

type options struct {
	tiles   bool
	mvs     bool
	verbose bool
	params  analyze.StreamParams
}

func log2(n int) (int, bool) {
	k := 0
	for 1<<uint(k) < n {
		k++
	}
	return k, n > 0 && 1<<uint(k) == n
}

func main() {
	// setup logger
	cmdName := filepath.Base(os.Args[0])
	log.SetPrefix(fmt.Sprintf("%s: ", cmdName))
	log.SetFlags(0)

	// initialize flags
	pflag.CommandLine = pflag.NewFlagSet(cmdName, pflag.ExitOnError)
	pflag.SetInterspersed(true)
	pflag.Usage = func() { usage(os.Stderr); os.Exit(1) }
	var (
		help          = pflag.BoolP("help", "h", false, "")
		tiles         = pflag.BoolP("tiles", "t", false, "")
		mvs           = pflag.BoolP("mvs", "m", false, "")
		baseQP        = pflag.IntP("base-qp", "q", 128, "")
		deltaQ        = pflag.Bool("delta-q", false, "")
		deltaQRes     = pflag.Int("delta-q-res", 0, "")
		hp            = pflag.Bool("hp", false, "")
		frameHeader   = pflag.Int("frame-header", 0, "")
		tileCols      = pflag.Int("tile-cols", 1, "")
		tileRows      = pflag.Int("tile-rows", 1, "")
		tileSizeBytes = pflag.Int("tile-size-bytes", 4, "")
		workers       = pflag.IntP("workers", "w", 0, "")
		noCache       = pflag.Bool("no-cache", false, "")
		eviction      = pflag.String("eviction", "approximate", "")
		maxUnit       = pflag.Int64("max-unit", 0, "")
		verbose       = pflag.BoolP("verbose", "v", false, "")
	)
	pflag.Parse()

	if *help {
		usage(os.Stdout)
		os.Exit(0)
	}

	policy, err := memo.ParsePolicy(*eviction)
	if err != nil {
		log.Fatal(err)
	}
	colsLog2, ok := log2(*tileCols)
	if !ok {
		log.Fatalf("tile columns %d must be a power of two", *tileCols)
	}
	rowsLog2, ok := log2(*tileRows)
	if !ok {
		log.Fatalf("tile rows %d must be a power of two", *tileRows)
	}
	if *deltaQRes < 0 || *deltaQRes > 3 {
		log.Fatalf("delta q resolution %d out of range [0,3]", *deltaQRes)
	}

	cfg := analyze.Config{
		Workers:      *workers,
		Eviction:     policy,
		DisableCache: *noCache,
		Budget:       &obu.Limit{MaxUnitSize: *maxUnit},
	}
	if *verbose {
		cfg.Logger = log.New(os.Stderr, cmdName+": ", 0)
	}
	a, err := analyze.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	opts := options{
		tiles:   *tiles || *mvs,
		mvs:     *mvs,
		verbose: *verbose,
		params: analyze.StreamParams{
			BaseQP:               *baseQP,
			DeltaQ:               *deltaQ,
			DeltaQRes:            uint(*deltaQRes),
			AllowHighPrecisionMV: *hp,
			FrameHeaderSize:      *frameHeader,
			Tiles: obu.TileInfo{
				Cols:      *tileCols,
				Rows:      *tileRows,
				ColsLog2:  colsLog2,
				RowsLog2:  rowsLog2,
				SizeBytes: *tileSizeBytes,
			},
		},
	}

	args := pflag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}
	failed := false
	for _, name := range args {
		data, err := readFile(name)
		if err != nil {
			log.Print(err)
			failed = true
			continue
		}
		if err = dump(os.Stdout, a, name, data, &opts); err != nil {
			log.Printf("%s: %v", name, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// dump analyzes the stream and prints the result to w. The returned error
// is the error that terminated the analysis; everything analyzed before
// has been printed.
func dump(w io.Writer, a *analyze.Analyzer, name string, data []byte,
	opts *options) error {

	res, err := a.AnalyzeStream(context.Background(), data, opts.params)

	fmt.Fprintf(w, "%s: %d bytes, %d units\n", name, len(data),
		len(res.Units))
	for _, u := range res.Units {
		h := u.Header
		fmt.Fprintf(w, "%8d  %-20v size %6d  payload %6d",
			u.Offset, h.Type, u.Size, len(u.Payload))
		if h.Extension {
			fmt.Fprintf(w, "  temporal %d spatial %d",
				h.TemporalID, h.SpatialID)
		}
		fmt.Fprintln(w)
	}
	if res.Sequence != nil {
		pretty.Fprintf(w, "sequence header %# v\n", res.Sequence)
	}
	if opts.tiles {
		for i := range res.Frames {
			dumpFrame(w, &res.Frames[i], opts)
		}
	}
	if len(res.Diagnostics) > 0 {
		fmt.Fprintf(w, "%d diagnostics\n", len(res.Diagnostics))
		if opts.verbose {
			for _, d := range res.Diagnostics {
				fmt.Fprintf(w, "  %v\n", d)
			}
		}
	}
	if opts.verbose {
		pretty.Fprintf(w, "cache %+v\n", a.CacheStats())
	}
	return err
}

func dumpFrame(w io.Writer, f *analyze.FrameResult, opts *options) {
	fmt.Fprintf(w, "frame at %d: %v %dx%d, %d tiles\n", f.Offset,
		f.Header.FrameType, f.Params.Width, f.Params.Height,
		len(f.Tiles))
	for i := range f.Tiles {
		t := &f.Tiles[i]
		fmt.Fprintf(w, "  tile %d %v: %d units", t.Num, t.Rect,
			len(t.Units))
		if t.Cached {
			fmt.Fprint(w, " (cached)")
		}
		if t.Err != nil {
			fmt.Fprintf(w, " error: %v", t.Err)
		}
		fmt.Fprintln(w)
		for _, cu := range t.Units {
			fmt.Fprintf(w, "    %4d %4d %3dx%-3d %-16v qp %3d",
				cu.X, cu.Y, cu.Width, cu.Height, cu.Mode, cu.QP)
			if cu.Skip {
				fmt.Fprint(w, " skip")
			}
			fmt.Fprintln(w)
		}
		if opts.mvs {
			for _, e := range t.MotionVectors() {
				fmt.Fprintf(w, "    mv %4d %4d %3dx%-3d %-7v %v",
					e.X, e.Y, e.Width, e.Height, e.Ref, e.MV)
				if e.IsCompound() {
					fmt.Fprintf(w, " %-7v %v", e.Ref2, e.MV2)
				}
				fmt.Fprintln(w)
			}
		}
	}
}
