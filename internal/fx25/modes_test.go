package fx25

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPickMode_smallestFits(t *testing.T) {
	m, ok := PickMode(100, 16)
	require.True(t, ok)
	assert.Equal(t, uint64(0x26FF60A600CC8FDE), m.Tag)
	assert.Equal(t, 144, m.Total)
	assert.Equal(t, 128, m.Data)
	assert.Equal(t, 16, m.Check)
}

func TestPickMode_honorsMinCheck(t *testing.T) {
	m, ok := PickMode(16, 32)
	require.True(t, ok)
	assert.Equal(t, 32, m.Check)
	assert.GreaterOrEqual(t, m.Data, 16)
}

func TestPickMode_tooLargeFails(t *testing.T) {
	_, ok := PickMode(300, 16)
	assert.False(t, ok)
}

func TestEncode_scenario(t *testing.T) {
	block := make([]byte, 100)
	for i := range block {
		block[i] = byte(i)
	}

	out, err := Encode(block, 16)
	require.NoError(t, err)
	require.Len(t, out, 8+128+16)

	assert.Equal(t, uint64(0x26FF60A600CC8FDE), binary.LittleEndian.Uint64(out[:8]))
	assert.Equal(t, block, out[8:8+100])
}

func TestEncode_noModeFits(t *testing.T) {
	_, err := Encode(make([]byte, 300), 16)
	assert.Error(t, err)
}

func TestEncode_lengthMatchesModeTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		check := rapid.SampledFrom([]int{16, 32, 64}).Draw(t, "check")
		// Largest data capacity among the modes with at least check parity bytes.
		maxData := map[int]int{16: 239, 32: 223, 64: 191}[check]
		n := rapid.IntRange(0, maxData).Draw(t, "n")
		block := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "block")

		out, err := Encode(block, check)
		require.NoError(t, err)

		mode, ok := PickMode(n, check)
		require.True(t, ok)
		assert.Len(t, out, 8+mode.Data+mode.Check)
		assert.Equal(t, block, out[8:8+n])
	})
}
