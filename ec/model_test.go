package ec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionCDF(t *testing.T) {
	m := DefaultModel()
	for log2 := -3; log2 <= 12; log2++ {
		c := m.PartitionCDF(log2)
		require.NoError(t, c.Verify(), "log2 %d", log2)
		assert.Equal(t, uint16(0), c[0])
		assert.Equal(t, uint16(ProbTop), c[len(c)-1])
		for i := 1; i < len(c); i++ {
			assert.LessOrEqual(t, c[i-1], c[i])
		}
		var want int
		switch {
		case log2 <= 2:
			want = 2
		case log2 == 3:
			want = 5
		default:
			want = 11
		}
		assert.Len(t, c, want, "log2 %d", log2)
	}
}

func TestDefaultModel(t *testing.T) {
	require.NoError(t, DefaultModel().Verify())
	m := DefaultModel()
	assert.Equal(t, 13, m.YMode.Symbols())
	assert.Equal(t, NumMVClasses, m.MVClass.Symbols())
	assert.Equal(t, 8, m.CompoundMode.Symbols())
	assert.Equal(t, 7, m.RefFrame.Symbols())
}

func TestModelVerifyNamesTable(t *testing.T) {
	m := *DefaultModel()
	m.MVFr = CDF{0, 40000, 32768}
	err := m.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MVFr")
}
