package kiss

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeDecode_roundTrip(t *testing.T) {
	payload := []byte{0x01, 0xC0, 0xDB, 0x02, 0xDC, 0xDD}
	raw := Encode(3, CmdDataFrame, payload)

	dec := NewDecoder(bufio.NewReader(bytes.NewReader(raw)))
	frame, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, frame.Port)
	assert.Equal(t, CmdDataFrame, frame.Command)
	assert.Equal(t, payload, frame.Payload)
}

func TestDecode_skipsLeadingFENDs(t *testing.T) {
	raw := append([]byte{FEND, FEND, FEND}, Encode(0, CmdDataFrame, []byte("hi"))...)
	dec := NewDecoder(bufio.NewReader(bytes.NewReader(raw)))
	frame, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), frame.Payload)
}

func TestDecode_multipleFrames(t *testing.T) {
	var raw []byte
	raw = append(raw, Encode(0, CmdDataFrame, []byte("first"))...)
	raw = append(raw, Encode(1, CmdSetHardware, []byte("second"))...)

	dec := NewDecoder(bufio.NewReader(bytes.NewReader(raw)))
	f1, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), f1.Payload)

	f2, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, f2.Port)
	assert.Equal(t, []byte("second"), f2.Payload)
}

func TestEncodeDecode_roundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(0, 15).Draw(t, "port")
		payload := rapid.SliceOf(rapid.Byte()).Draw(t, "payload")

		raw := Encode(port, CmdDataFrame, payload)
		dec := NewDecoder(bufio.NewReader(bytes.NewReader(raw)))
		frame, err := dec.Next()
		require.NoError(t, err)
		assert.Equal(t, port, frame.Port)
		assert.Equal(t, payload, frame.Payload)
	})
}
