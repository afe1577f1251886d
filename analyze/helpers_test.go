package analyze

import (
	"testing"

	"github.com/ulikunitz/av1/block"
	"github.com/ulikunitz/av1/ec"
	"github.com/ulikunitz/av1/internal/bitio"
	"github.com/ulikunitz/av1/obu"
)

type sbKind int

const (
	intraSB sbKind = iota
	interSB
)

// encodeTile creates the payload of a tile with one unpartitioned 64x64
// superblock per kind. Intra superblocks are only valid in key frames.
func encodeTile(t *testing.T, kinds ...sbKind) []byte {
	t.Helper()
	m := ec.DefaultModel()
	e := ec.NewEncoder()
	w := func(s int, cdf ec.CDF) {
		t.Helper()
		if err := e.WriteSymbol(s, cdf); err != nil {
			t.Fatalf("WriteSymbol error %s", err)
		}
	}
	for _, k := range kinds {
		w(int(block.PartitionNone), m.PartitionCDF(6))
		w(0, m.Skip)
		switch k {
		case intraSB:
			w(int(block.DCPred), m.YMode)
		case interSB:
			w(1, m.IsInter)
			w(0, m.CompMode)
			w(0, m.RefFrame)
			w(int(block.GlobalMV-block.NearestMV), m.InterMode)
		}
	}
	return e.Bytes()
}

// seqHeader writes a sequence header for 128x64 frames with 64x64
// superblocks.
func seqHeader() []byte {
	var w bitio.Writer
	w.WriteBits(0, 3)   // seq_profile
	w.WriteFlag(false)  // still_picture
	w.WriteFlag(false)  // reduced_still_picture_header
	w.WriteFlag(false)  // timing_info_present_flag
	w.WriteFlag(false)  // initial_display_delay_present_flag
	w.WriteBits(0, 5)   // operating_points_cnt_minus_1
	w.WriteBits(0, 12)  // operating_point_idc[0]
	w.WriteBits(4, 5)   // seq_level_idx[0]
	w.WriteBits(7, 4)   // frame_width_bits_minus_1
	w.WriteBits(7, 4)   // frame_height_bits_minus_1
	w.WriteBits(127, 8) // max_frame_width_minus_1
	w.WriteBits(63, 8)  // max_frame_height_minus_1
	w.WriteFlag(false)  // frame_id_numbers_present_flag
	w.WriteFlag(false)  // use_128x128_superblock
	w.WriteFlag(false)  // enable_filter_intra
	w.WriteFlag(false)  // enable_intra_edge_filter
	w.WriteFlag(false)  // enable_interintra_compound
	w.WriteFlag(false)  // enable_masked_compound
	w.WriteFlag(false)  // enable_warped_motion
	w.WriteFlag(false)  // enable_dual_filter
	w.WriteFlag(false)  // enable_order_hint
	w.WriteFlag(false)  // seq_choose_screen_content_tools
	w.WriteBits(0, 1)   // seq_force_screen_content_tools
	w.WriteFlag(false)  // enable_superres
	w.WriteFlag(false)  // enable_cdef
	w.WriteFlag(false)  // enable_restoration
	return w.Bytes()
}

const (
	keyFrameHeader   = 0x10
	interFrameHeader = 0x30
)

func appendUnit(p []byte, typ obu.Type, payload []byte) []byte {
	return obu.AppendUnit(p, obu.Header{Type: typ, HasSize: true}, payload)
}
