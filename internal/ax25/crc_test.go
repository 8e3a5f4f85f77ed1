package ax25

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCRC_tableMatchesBitwise(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		assert.Equal(t, CRCBitwise(data), CRCTable(data))
	})
}

func TestCRC_knownVector(t *testing.T) {
	// The empty string's CRC is just the un-XORed init value XORed back out.
	assert.Equal(t, uint16(0x0000), CRC(nil))
}

func TestCRC_detectsSingleBitFlip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(t, "data")
		idx := rapid.IntRange(0, len(data)-1).Draw(t, "idx")
		bit := rapid.IntRange(0, 7).Draw(t, "bit")

		flipped := append([]byte(nil), data...)
		flipped[idx] ^= 1 << bit

		assert.NotEqual(t, CRC(data), CRC(flipped))
	})
}
