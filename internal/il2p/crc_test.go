package il2p

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestEncodeDecodeCRC_roundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		crc := uint16(rapid.IntRange(0, 0xffff).Draw(t, "crc"))
		encoded := EncodeCRC(crc)
		assert.Equal(t, crc, DecodeCRC(encoded[:]))
	})
}

func TestDecodeCRC_correctsSingleBitError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		crc := uint16(rapid.IntRange(0, 0xffff).Draw(t, "crc"))
		encoded := EncodeCRC(crc)

		idx := rapid.IntRange(0, 3).Draw(t, "idx")
		bit := rapid.IntRange(0, 6).Draw(t, "bit")
		encoded[idx] ^= 1 << bit

		assert.Equal(t, crc, DecodeCRC(encoded[:]))
	})
}

func TestCheck_detectsMismatch(t *testing.T) {
	data := []byte("hello world")
	crc := CRC(data)
	encoded := EncodeCRC(crc)
	assert.True(t, Check(data, encoded[:]))

	assert.False(t, Check([]byte("goodbye world"), encoded[:]))
}
