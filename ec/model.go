package ec

import "fmt"

// MinPartitionLog2 and MaxPartitionLog2 bound the block size tiers of the
// partition tables.
const (
	MinPartitionLog2 = 2
	MaxPartitionLog2 = 7
)

// NumMVClasses is the number of motion vector magnitude classes.
const NumMVClasses = 11

// Model provides the tables for all syntax elements decoded from tiles. The
// tables are shared and must not be modified; use Clone or NewAdaptive to
// derive modified tables.
type Model struct {
	// Partition holds the tables for the block size tiers 4x4 to
	// 128x128, indexed by log2 of the block size minus
	// MinPartitionLog2.
	Partition [MaxPartitionLog2 - MinPartitionLog2 + 1]CDF

	Skip      CDF
	DeltaQAbs CDF
	IsInter   CDF
	YMode     CDF

	CompMode     CDF
	RefFrame     CDF
	InterMode    CDF
	CompoundMode CDF

	MVJoint     CDF
	MVSign      CDF
	MVClass     CDF
	MVClass0Bit CDF
	MVClass0Fr  [2]CDF
	MVFr        CDF
	MVClass0HP  CDF
	MVHP        CDF
	MVBits      [NumMVClasses - 1]CDF
}

// PartitionCDF returns the partition table for a block whose larger side
// is 1<<log2. The argument is clamped to [MinPartitionLog2,
// MaxPartitionLog2]. The smallest tier has a single symbol, the 8x8 tier
// four and all larger tiers ten.
func (m *Model) PartitionCDF(log2 int) CDF {
	log2 = max(MinPartitionLog2, min(log2, MaxPartitionLog2))
	return m.Partition[log2-MinPartitionLog2]
}

// tables returns all tables of the model with their names.
func (m *Model) tables() map[string]CDF {
	t := map[string]CDF{
		"Skip":         m.Skip,
		"DeltaQAbs":    m.DeltaQAbs,
		"IsInter":      m.IsInter,
		"YMode":        m.YMode,
		"CompMode":     m.CompMode,
		"RefFrame":     m.RefFrame,
		"InterMode":    m.InterMode,
		"CompoundMode": m.CompoundMode,
		"MVJoint":      m.MVJoint,
		"MVSign":       m.MVSign,
		"MVClass":      m.MVClass,
		"MVClass0Bit":  m.MVClass0Bit,
		"MVFr":         m.MVFr,
		"MVClass0HP":   m.MVClass0HP,
		"MVHP":         m.MVHP,
	}
	for i, c := range m.Partition {
		t[fmt.Sprintf("Partition[%d]", i+MinPartitionLog2)] = c
	}
	for i, c := range m.MVClass0Fr {
		t[fmt.Sprintf("MVClass0Fr[%d]", i)] = c
	}
	for i, c := range m.MVBits {
		t[fmt.Sprintf("MVBits[%d]", i)] = c
	}
	return t
}

// Verify checks every table of the model.
func (m *Model) Verify() error {
	for name, c := range m.tables() {
		if err := c.Verify(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// DefaultModel returns the default tables. They are taken from the AV1
// default CDFs for context 0. The 128x128 partition tier assigns no mass
// to the four-way partitions, which AV1 doesn't allow at that size.
func DefaultModel() *Model { return defaultModel }

var defaultModel = &Model{
	Partition: [...]CDF{
		{0, 32768},
		{0, 19132, 25510, 30392, 32768},
		{0, 15597, 20929, 24571, 26706, 27664, 28821, 29601, 30571,
			31902, 32768},
		{0, 7815, 11224, 14289, 18513, 19338, 20306, 21034, 21919,
			27592, 32768},
		{0, 18462, 20920, 23124, 27647, 28227, 29049, 29519, 30178,
			31544, 32768},
		{0, 27899, 28219, 28529, 32484, 32539, 32619, 32639, 32768,
			32768, 32768},
	},
	Skip:      CDF{0, 31671, 32768},
	DeltaQAbs: CDF{0, 28160, 32120, 32677, 32768},
	IsInter:   CDF{0, 806, 32768},
	YMode: CDF{0, 22801, 23489, 24293, 24756, 25601, 26123, 26606,
		27418, 27945, 29228, 29791, 30662, 32768},
	CompMode:  CDF{0, 26828, 32768},
	RefFrame:  CDF{0, 20480, 23552, 25088, 27136, 28672, 30720, 32768},
	InterMode: CDF{0, 11264, 17408, 21504, 32768},
	CompoundMode: CDF{0, 7760, 13823, 15808, 17641, 19156, 20666,
		26891, 32768},
	MVJoint: CDF{0, 4096, 11264, 19328, 32768},
	MVSign:  CDF{0, 16384, 32768},
	MVClass: CDF{0, 28672, 30976, 31858, 32320, 32551, 32656, 32740,
		32757, 32762, 32767, 32768},
	MVClass0Bit: CDF{0, 27648, 32768},
	MVClass0Fr: [2]CDF{
		{0, 16384, 24576, 26624, 32768},
		{0, 12288, 21248, 24128, 32768},
	},
	MVFr:       CDF{0, 8192, 17408, 21248, 32768},
	MVClass0HP: CDF{0, 20480, 32768},
	MVHP:       CDF{0, 16384, 32768},
	MVBits: [NumMVClasses - 1]CDF{
		{0, 17408, 32768}, {0, 17920, 32768}, {0, 18944, 32768},
		{0, 20480, 32768}, {0, 22528, 32768}, {0, 24576, 32768},
		{0, 28672, 32768}, {0, 29952, 32768}, {0, 29952, 32768},
		{0, 30720, 32768},
	},
}
