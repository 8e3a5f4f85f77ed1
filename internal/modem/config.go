// Package modem orchestrates the full transmit (and placeholder receive)
// pipeline: packet -> bitstream -> DDS samples -> post-processing -> sink,
// with a PTT envelope around the whole thing.
//
// Grounded on the teacher's xmit.go (txdelay/txtail -> preamble/postamble
// flag counts via MS_TO_BITS, the assert-PTT/send-flags/send-data/send-
// flags/release-PTT shape of xmit_thread), generalized to the exact
// post-processing chain and converter selection of this spec.
package modem

// Config is one channel's modem configuration, the derived form of a
// modulators[] config entry (§4.16).
type Config struct {
	SampleRate float64
	Baud       float64
	MarkFreq   float64
	SpaceFreq  float64
	Alpha      float64

	TXDelayMS int // time to send flags before the frame, for radio PLLs
	TXTailMS  int // time to keep sending flags after the frame

	PreEmphasis    bool
	GainLinear     float64
	BeginSilenceMS int
	EndSilenceMS   int

	// FX25MinCheck > 0 selects the FX.25 converter with at least this many
	// check bytes; 0 means plain AX.25.
	FX25MinCheck int
}

// PreambleFlags returns the number of flag octets to emit for TXDelayMS at
// this config's baud rate, ported from the teacher's
// MS_TO_BITS(txdelay*10, ch)/8 (here txdelay is already in whole
// milliseconds, not the teacher's 10 ms units). Per §3's
// preamble_flags = max(1, tx_delay_ms/ms_per_flag), at least one flag is
// always emitted so every transmission still gives the receiving decoder a
// flag to synchronize on, even with TXDelayMS == 0.
func (c Config) PreambleFlags() int {
	return max(1, msToBits(c.TXDelayMS, c.Baud)/8)
}

// PostambleFlags is the txtail analogue of PreambleFlags, with the same
// max(1, …) floor from §3.
func (c Config) PostambleFlags() int {
	return max(1, msToBits(c.TXTailMS, c.Baud)/8)
}

func msToBits(ms int, baud float64) int {
	return int(float64(ms) * baud / 1000)
}
