package obu

import (
	"fmt"

	"github.com/ulikunitz/av1/internal/bitio"
)

// FrameType is the frame_type of a frame header.
type FrameType uint8

// Frame types defined by AV1.
const (
	KeyFrame       FrameType = 0
	InterFrame     FrameType = 1
	IntraOnlyFrame FrameType = 2
	SwitchFrame    FrameType = 3
)

func (t FrameType) String() string {
	switch t {
	case KeyFrame:
		return "Key"
	case InterFrame:
		return "Inter"
	case IntraOnlyFrame:
		return "IntraOnly"
	case SwitchFrame:
		return "Switch"
	}
	return fmt.Sprintf("FrameType(%d)", uint8(t))
}

// FrameHeaderPrefix holds the leading fields of an uncompressed frame
// header, which don't depend on reference state.
type FrameHeaderPrefix struct {
	ShowExistingFrame bool
	// Only valid if ShowExistingFrame is set.
	FrameToShow uint8
	FrameType   FrameType
	ShowFrame   bool
}

// IsIntra reports whether all blocks of the frame are intra predicted.
func (f FrameHeaderPrefix) IsIntra() bool {
	return f.FrameType == KeyFrame || f.FrameType == IntraOnlyFrame
}

// ParseFrameHeaderPrefix parses the first fields of a frame header or frame
// unit payload. The sequence header must be the one active for the frame.
func ParseFrameHeaderPrefix(seq *SeqHeader, payload []byte) (
	f FrameHeaderPrefix, err error) {

	if seq.ReducedStillPictureHeader {
		return FrameHeaderPrefix{FrameType: KeyFrame, ShowFrame: true},
			nil
	}
	s := &seqReader{r: bitio.NewReader(payload)}
	f.ShowExistingFrame = s.flag()
	if f.ShowExistingFrame {
		f.FrameToShow = uint8(s.f(3))
	} else {
		f.FrameType = FrameType(s.f(2))
		f.ShowFrame = s.flag()
	}
	if s.err != nil {
		return FrameHeaderPrefix{}, fmt.Errorf("obu: frame header: %w",
			s.err)
	}
	return f, nil
}
