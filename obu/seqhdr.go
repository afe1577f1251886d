package obu

import (
	"fmt"

	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/internal/bitio"
)

// Select is the value of the seq_force_* fields that defers the decision to
// the frame header.
const Select = 2

// OperatingPoint describes one operating point of a sequence header.
type OperatingPoint struct {
	IDC      uint16
	LevelIdx uint8
	Tier     uint8
}

// SeqHeader contains the leading fields of a sequence header. The color
// configuration and the film grain flag are not parsed.
type SeqHeader struct {
	Profile                   uint8
	StillPicture              bool
	ReducedStillPictureHeader bool

	TimingInfoPresent       bool
	DecoderModelInfoPresent bool
	OperatingPoints         []OperatingPoint

	FrameWidthBits  int
	FrameHeightBits int
	MaxFrameWidth   int
	MaxFrameHeight  int

	FrameIDNumbersPresent bool
	DeltaFrameIDLength    int
	AdditionalFrameIDLen  int

	Use128x128Superblock bool
	EnableFilterIntra    bool
	EnableIntraEdge      bool

	EnableInterIntraCompound bool
	EnableMaskedCompound     bool
	EnableWarpedMotion       bool
	EnableDualFilter         bool
	EnableOrderHint          bool
	EnableJntComp            bool
	EnableRefFrameMVs        bool
	ForceScreenContentTools  uint8
	ForceIntegerMV           uint8
	OrderHintBits            int

	EnableSuperres    bool
	EnableCDEF        bool
	EnableRestoration bool
}

// SuperblockSize returns the superblock size in pixels.
func (s *SeqHeader) SuperblockSize() int {
	if s.Use128x128Superblock {
		return 128
	}
	return 64
}

// seqReader wraps the bit reader and keeps the first error. It allows the
// long list of fields to be read without checking every call.
type seqReader struct {
	r   *bitio.Reader
	err error
}

func (s *seqReader) f(n int) uint32 {
	if s.err != nil {
		return 0
	}
	var x uint32
	x, s.err = s.r.F(n)
	return x
}

func (s *seqReader) flag() bool { return s.f(1) == 1 }

func (s *seqReader) uvlc() uint32 {
	if s.err != nil {
		return 0
	}
	var x uint32
	x, s.err = s.r.UVLC()
	return x
}

// ParseSequenceHeader parses the payload of a sequence header unit.
func ParseSequenceHeader(payload []byte) (*SeqHeader, error) {
	s := &seqReader{r: bitio.NewReader(payload)}
	h := &SeqHeader{}
	h.Profile = uint8(s.f(3))
	if h.Profile > 2 {
		return nil, fmt.Errorf("obu: seq_profile %d: %w",
			h.Profile, av1.ErrMalformed)
	}
	h.StillPicture = s.flag()
	h.ReducedStillPictureHeader = s.flag()
	if h.ReducedStillPictureHeader {
		h.OperatingPoints = []OperatingPoint{{LevelIdx: uint8(s.f(5))}}
	} else {
		var bufferDelayLen int
		h.TimingInfoPresent = s.flag()
		if h.TimingInfoPresent {
			// num_units_in_display_tick, time_scale
			s.f(32)
			s.f(32)
			if equalPictureInterval := s.flag(); equalPictureInterval {
				s.uvlc()
			}
			h.DecoderModelInfoPresent = s.flag()
			if h.DecoderModelInfoPresent {
				bufferDelayLen = int(s.f(5)) + 1
				// num_units_in_decoding_tick
				s.f(32)
				// buffer_removal_time_length_minus_1,
				// frame_presentation_time_length_minus_1
				s.f(5)
				s.f(5)
			}
		}
		initialDisplayDelayPresent := s.flag()
		n := int(s.f(5)) + 1
		h.OperatingPoints = make([]OperatingPoint, n)
		for i := range h.OperatingPoints {
			op := &h.OperatingPoints[i]
			op.IDC = uint16(s.f(12))
			op.LevelIdx = uint8(s.f(5))
			if op.LevelIdx > 7 {
				op.Tier = uint8(s.f(1))
			}
			if h.DecoderModelInfoPresent {
				if present := s.flag(); present {
					s.f(bufferDelayLen)
					s.f(bufferDelayLen)
					// low_delay_mode_flag
					s.f(1)
				}
			}
			if initialDisplayDelayPresent {
				if present := s.flag(); present {
					s.f(4)
				}
			}
		}
	}
	h.FrameWidthBits = int(s.f(4)) + 1
	h.FrameHeightBits = int(s.f(4)) + 1
	h.MaxFrameWidth = int(s.f(h.FrameWidthBits)) + 1
	h.MaxFrameHeight = int(s.f(h.FrameHeightBits)) + 1
	if !h.ReducedStillPictureHeader {
		h.FrameIDNumbersPresent = s.flag()
	}
	if h.FrameIDNumbersPresent {
		h.DeltaFrameIDLength = int(s.f(4)) + 2
		h.AdditionalFrameIDLen = int(s.f(3)) + 1
	}
	h.Use128x128Superblock = s.flag()
	h.EnableFilterIntra = s.flag()
	h.EnableIntraEdge = s.flag()
	if h.ReducedStillPictureHeader {
		h.ForceScreenContentTools = Select
		h.ForceIntegerMV = Select
	} else {
		h.EnableInterIntraCompound = s.flag()
		h.EnableMaskedCompound = s.flag()
		h.EnableWarpedMotion = s.flag()
		h.EnableDualFilter = s.flag()
		h.EnableOrderHint = s.flag()
		if h.EnableOrderHint {
			h.EnableJntComp = s.flag()
			h.EnableRefFrameMVs = s.flag()
		}
		if chooseSCT := s.flag(); chooseSCT {
			h.ForceScreenContentTools = Select
		} else {
			h.ForceScreenContentTools = uint8(s.f(1))
		}
		if h.ForceScreenContentTools > 0 {
			if chooseIntegerMV := s.flag(); chooseIntegerMV {
				h.ForceIntegerMV = Select
			} else {
				h.ForceIntegerMV = uint8(s.f(1))
			}
		} else {
			h.ForceIntegerMV = Select
		}
		if h.EnableOrderHint {
			h.OrderHintBits = int(s.f(3)) + 1
		}
	}
	h.EnableSuperres = s.flag()
	h.EnableCDEF = s.flag()
	h.EnableRestoration = s.flag()
	if s.err != nil {
		return nil, fmt.Errorf("obu: sequence header: %w", s.err)
	}
	return h, nil
}
