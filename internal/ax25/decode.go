package ax25

// The streaming AX.25 decoder: a single-bit-at-a-time state machine that
// hunts for HDLC flags, captures frame bits between them, and emits
// decoded packets. Grounded on the teacher's hdlc_rec2.go (the state
// machine shape: SEARCHING / FRAME_FLAG / FRAME_BODY equivalents) but
// reworked to the exact phase model and diagnostics of this spec, and to
// plain data instead of per-channel/subchannel/slicer global arrays.

// Phase is the decoder's synchronization state.
type Phase int

const (
	PhaseSearching Phase = iota
	PhaseInPreamble
	PhaseInFrame
)

// watchdogBits bounds in_frame growth on a sync that never resolves.
const watchdogBits = 8000

// searchTrimBits bounds searching-phase buffer growth on pure noise.
const searchTrimBits = 16

// BitstreamState is the decoder's exclusive, single-owner state, fed one
// raw (post-NRZI-line, pre-decode) bit at a time via Step.
type BitstreamState struct {
	Phase    Phase
	Complete bool

	lastNRZILevel   byte
	bitstream       []byte
	frameStartIndex int
	globalBitCount  uint64

	// Pending diagnostics, accumulated while hunting/assembling.
	globalPreambleStartPending uint64
	frameNRZILevelPending      byte
	preambleCountPending       int
	postambleCountPending      int

	// Diagnostics committed at the last successful Complete.
	GlobalPreambleStart uint64
	GlobalPostambleEnd  uint64
	FrameNRZILevel      byte
	FrameSizeBits       int
	PreambleCount       int
	PostambleCount      int

	// Frame is the last successfully decoded frame (CRC-valid, address
	// list well formed). It is left untouched across a Step that produces
	// a CRC failure or parse rejection; LastErr carries that failure.
	Frame   DecodedFrame
	LastErr error
}

// NewBitstreamState returns a decoder ready to hunt for the first flag.
func NewBitstreamState() *BitstreamState {
	return &BitstreamState{Phase: PhaseSearching}
}

// Step feeds one raw (NRZI-line) bit into the decoder. It returns true iff
// a frame was both assembled AND passed TryDecodeFrame; state.Complete is
// set whenever a frame boundary was reached at all, even on a CRC/parse
// failure, since a validly-framed-but-corrupt packet is still observably
// "complete".
func (s *BitstreamState) Step(rawBit byte) bool {
	if s.Complete {
		s.Complete = false
	}

	decoded, newLevel := NRZIDecodeBit(rawBit, s.lastNRZILevel)
	s.lastNRZILevel = newLevel
	s.bitstream = append(s.bitstream, decoded)
	s.globalBitCount++

	flag := EndsWithHDLCFlag(s.bitstream)

	switch s.Phase {
	case PhaseSearching:
		if flag {
			s.Phase = PhaseInPreamble
			s.frameStartIndex = len(s.bitstream)
			s.preambleCountPending = 1
			s.globalPreambleStartPending = s.globalBitCount - 8
			s.frameNRZILevelPending = s.lastNRZILevel
		} else if len(s.bitstream) > searchTrimBits {
			s.bitstream = append([]byte(nil), s.bitstream[len(s.bitstream)-8:]...)
		}
		return false

	case PhaseInPreamble:
		if flag {
			s.frameStartIndex = len(s.bitstream)
			s.preambleCountPending++
			return false
		}
		if len(s.bitstream)-s.frameStartIndex >= 8 {
			s.Phase = PhaseInFrame
		}
		return false

	case PhaseInFrame:
		if flag {
			frameEnd := len(s.bitstream) - 8
			if frameEnd > s.frameStartIndex {
				return s.emitFrame(frameEnd)
			}
			// Two flags back to back: an empty frame. Stay synchronized on
			// the preamble; don't reset the pending counters (§4.6).
			s.Phase = PhaseInPreamble
			s.frameStartIndex = len(s.bitstream)
			return false
		}
		if len(s.bitstream) > watchdogBits {
			s.resetToSearching()
		}
		return false
	}

	return false
}

// emitFrame handles the in_frame -> postamble transition: slice the frame
// bits, unstuff, convert to bytes, attempt a decode, commit diagnostics,
// and retain the trailing flag as the next frame's preamble.
func (s *BitstreamState) emitFrame(frameEnd int) bool {
	frameBits := s.bitstream[s.frameStartIndex:frameEnd]
	unstuffed := BitUnstuff(frameBits)
	frameBytes := BitsToBytes(unstuffed)

	decoded, err := TryDecodeFrame(frameBytes)

	s.GlobalPreambleStart = s.globalPreambleStartPending
	s.GlobalPostambleEnd = s.globalBitCount
	s.FrameNRZILevel = s.frameNRZILevelPending
	s.FrameSizeBits = frameEnd - s.frameStartIndex
	s.PreambleCount = s.preambleCountPending
	s.PostambleCount = 1

	// Discard everything before frameEnd, keeping the trailing 8-bit flag
	// in the buffer so it can serve as the preamble of an adjacent frame.
	s.bitstream = append([]byte(nil), s.bitstream[frameEnd:]...)
	s.frameStartIndex = len(s.bitstream) // == 8
	s.Phase = PhaseInPreamble
	s.preambleCountPending = 1
	s.globalPreambleStartPending = s.globalBitCount - 8
	s.frameNRZILevelPending = s.lastNRZILevel

	s.Complete = true
	s.LastErr = err
	if err == nil {
		s.Frame = decoded
		return true
	}
	return false
}

func (s *BitstreamState) resetToSearching() {
	s.Phase = PhaseSearching
	s.bitstream = nil
	s.frameStartIndex = 0
	s.preambleCountPending = 0
	s.postambleCountPending = 0
	s.globalPreambleStartPending = 0
	s.frameNRZILevelPending = 0
}

// BufferLen reports the current length of the decoded bit window, mainly
// for tests asserting the watchdog reset behavior.
func (s *BitstreamState) BufferLen() int { return len(s.bitstream) }
