package ax25

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func feed(s *BitstreamState, bits []byte) (got DecodedFrame, ok bool, sawComplete bool) {
	for _, b := range bits {
		if s.Step(b) {
			got = s.Frame
			ok = true
		}
		if s.Complete {
			sawComplete = true
		}
	}
	return
}

func TestBitstreamState_decodesEncodedFrame(t *testing.T) {
	pkt := samplePacket()
	bits, err := EncodeBitstream(pkt, 2, 2, 0)
	require.NoError(t, err)

	s := NewBitstreamState()
	decoded, ok, _ := feed(s, bits)
	require.True(t, ok)
	assert.Equal(t, pkt.Data, decoded.Packet.Data)
	assert.Equal(t, pkt.From.Text, decoded.Packet.From.Text)
}

func TestBitstreamState_sharedFlagBetweenFrames(t *testing.T) {
	pkt1 := samplePacket()
	pkt2 := samplePacket()
	pkt2.Data = []byte("second frame")

	// Encode b1 with no postamble flags and let b2's leading preamble flag
	// serve double duty, exercising the "shared flag between adjacent
	// frames" behavior.
	b1, err := EncodeBitstream(pkt1, 2, 0, 0)
	require.NoError(t, err)
	lastLevel := b1[len(b1)-1]
	b2, err := EncodeBitstream(pkt2, 1, 1, lastLevel)
	require.NoError(t, err)

	all := append(append([]byte{}, b1...), b2...)

	s := NewBitstreamState()
	var frames []DecodedFrame
	for _, b := range all {
		if s.Step(b) {
			frames = append(frames, s.Frame)
		}
	}

	require.Len(t, frames, 2)
	assert.Equal(t, pkt1.Data, frames[0].Packet.Data)
	assert.Equal(t, pkt2.Data, frames[1].Packet.Data)
}

func TestBitstreamState_watchdogResetsOnLongNoise(t *testing.T) {
	s := NewBitstreamState()
	// Get into in_frame by sending a flag then >=8 non-flag bits.
	for _, b := range NRZIEncode(BytesToBits([]byte{HDLCFlag}), 0) {
		s.Step(b)
	}
	for i := 0; i < 8; i++ {
		s.Step(1)
	}
	require.Equal(t, PhaseInFrame, s.Phase)

	for i := 0; i < 8100; i++ {
		s.Step(1)
	}
	assert.Equal(t, PhaseSearching, s.Phase)
}

func TestBitstreamState_emptyFramesDoNotEmit(t *testing.T) {
	s := NewBitstreamState()
	flagBits := NRZIEncode(BytesToBits([]byte{HDLCFlag, HDLCFlag, HDLCFlag}), 0)

	var any bool
	for _, b := range flagBits {
		if s.Step(b) {
			any = true
		}
	}
	assert.False(t, any)
}

func TestBitstreamState_roundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		info := rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(t, "info")
		pkt := Packet{To: NewAddress("APRS", 0), From: NewAddress("N0CALL", 0), Data: info}

		bits, err := EncodeBitstream(pkt, 3, 3, 0)
		require.NoError(t, err)

		s := NewBitstreamState()
		var got DecodedFrame
		var ok bool
		for _, b := range bits {
			if s.Step(b) {
				got = s.Frame
				ok = true
			}
		}
		require.True(t, ok)
		assert.Equal(t, info, got.Packet.Data)
	})
}
