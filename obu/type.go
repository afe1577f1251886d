package obu

import "fmt"

// Type is the obu_type field of a unit header.
type Type uint8

// Unit types defined by AV1. The values 9 to 14 are reserved.
const (
	Reserved             Type = 0
	SequenceHeader       Type = 1
	TemporalDelimiter    Type = 2
	FrameHeader          Type = 3
	TileGroup            Type = 4
	Metadata             Type = 5
	Frame                Type = 6
	RedundantFrameHeader Type = 7
	TileList             Type = 8
	Padding              Type = 15
)

var typeNames = map[Type]string{
	Reserved:             "Reserved",
	SequenceHeader:       "SequenceHeader",
	TemporalDelimiter:    "TemporalDelimiter",
	FrameHeader:          "FrameHeader",
	TileGroup:            "TileGroup",
	Metadata:             "Metadata",
	Frame:                "Frame",
	RedundantFrameHeader: "RedundantFrameHeader",
	TileList:             "TileList",
	Padding:              "Padding",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Reserved(%d)", uint8(t))
}

// HasTileData reports whether units of the type carry tile payloads.
func (t Type) HasTileData() bool {
	return t == TileGroup || t == Frame
}
