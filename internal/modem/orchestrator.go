package modem

import (
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/kb9vht/afsk25/internal/audio"
	"github.com/kb9vht/afsk25/internal/ax25"
	"github.com/kb9vht/afsk25/internal/dds"
	"github.com/kb9vht/afsk25/internal/fx25"
	"github.com/kb9vht/afsk25/internal/modemerr"
	"github.com/kb9vht/afsk25/internal/ptt"
)

// preEmphasisTau is the fixed 75 microsecond pre-emphasis time constant of
// §4.9.
const preEmphasisTau = 75e-6

// Orchestrator drives one channel's full transmit pipeline: bitstream
// conversion, DDS modulation, post-processing, PTT envelope, and the
// sink write/drain.
type Orchestrator struct {
	Config Config
	Sink   audio.Sink
	PTT    ptt.Controller

	log *log.Logger
	mod *dds.Modulator

	txMu sync.Mutex
}

// New builds an Orchestrator for one channel.
func New(cfg Config, sink audio.Sink, controller ptt.Controller, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		Config: cfg,
		Sink:   sink,
		PTT:    controller,
		log:    logger.With("component", "modem"),
		mod:    dds.New(cfg.SampleRate, cfg.MarkFreq, cfg.SpaceFreq, cfg.Baud, cfg.Alpha),
	}
}

// Transmit implements §4.9's transmit(packet): convert to a bitstream,
// modulate, post-process, and play it with a PTT envelope that is released
// on every exit path, including error returns.
func (o *Orchestrator) Transmit(pkt ax25.Packet) (err error) {
	if !o.txMu.TryLock() {
		return fmt.Errorf("%w: channel is already transmitting", modemerr.ErrDeviceBusy)
	}
	defer o.txMu.Unlock()

	bits, convErr := o.toBitstream(pkt)
	if convErr != nil {
		return convErr
	}

	samples := make([]float64, 0, len(bits))
	for _, b := range bits {
		n := o.mod.NextSamplesPerBit()
		samples = o.mod.GenerateBit(b, n, samples)
	}

	if o.Config.PreEmphasis {
		samples = preEmphasis(samples, o.Config.SampleRate)
	}
	applyGain(samples, o.Config.GainLinear)
	samples = appendSilence(samples, o.Config.EndSilenceMS, o.Config.SampleRate)
	samples = prependSilence(samples, o.Config.BeginSilenceMS, o.Config.SampleRate)

	if err := o.PTT.Set(true); err != nil {
		return fmt.Errorf("modem: ptt assert failed: %w", err)
	}
	defer func() {
		if releaseErr := o.PTT.Set(false); releaseErr != nil && err == nil {
			err = fmt.Errorf("modem: ptt release failed: %w", releaseErr)
		}
	}()

	if startErr := o.Sink.Start(); startErr != nil {
		return fmt.Errorf("modem: sink start failed: %w", startErr)
	}
	defer func() {
		if stopErr := o.Sink.Stop(); stopErr != nil && err == nil {
			err = fmt.Errorf("modem: sink stop failed: %w", stopErr)
		}
	}()

	for written := 0; written < len(samples); {
		n, writeErr := o.Sink.Write(samples[written:])
		if writeErr != nil {
			return fmt.Errorf("modem: sink write failed: %w", writeErr)
		}
		written += n
	}

	if !o.Sink.WaitWriteCompleted(5000) {
		return fmt.Errorf("%w: sink did not drain before timeout", modemerr.ErrDeviceTimeout)
	}

	return nil
}

// toBitstream implements the "configured converter" step: plain AX.25, or
// FX.25 wrapping an AX.25 HDLC block. Either way the final bits are
// NRZI-encoded and ready for the modulator.
func (o *Orchestrator) toBitstream(pkt ax25.Packet) ([]byte, error) {
	if o.Config.FX25MinCheck <= 0 {
		return ax25.EncodeBitstream(pkt, o.Config.PreambleFlags(), o.Config.PostambleFlags(), 0)
	}

	frame, err := ax25.EncodeFrame(pkt)
	if err != nil {
		return nil, err
	}

	frameBits := ax25.BytesToBits(frame)
	stuffed := ax25.BitStuff(frameBits)

	hdlcBits := make([]byte, 0, o.Config.PreambleFlags()*8+len(stuffed)+o.Config.PostambleFlags()*8)
	hdlcBits = append(hdlcBits, flagBits(o.Config.PreambleFlags())...)
	hdlcBits = append(hdlcBits, stuffed...)
	hdlcBits = append(hdlcBits, flagBits(o.Config.PostambleFlags())...)

	hdlcBlock := ax25.BitsToBytes(hdlcBits)

	wrapped, err := fx25.Encode(hdlcBlock, o.Config.FX25MinCheck)
	if err != nil {
		return nil, err
	}

	return ax25.NRZIEncode(ax25.BytesToBits(wrapped), 0), nil
}

func flagBits(n int) []byte {
	bits := ax25.BytesToBits([]byte{ax25.HDLCFlag})
	out := make([]byte, 0, n*8)
	for i := 0; i < n; i++ {
		out = append(out, bits...)
	}
	return out
}

// preEmphasis applies the single-pole IIR high-pass filter of §4.9:
// y[n] = x[n] - x[n-1] + alpha*y[n-1], seeded with x_prev = y_prev = x[0].
func preEmphasis(samples []float64, sampleRate float64) []float64 {
	if len(samples) == 0 {
		return samples
	}
	alpha := math.Exp(-1 / (sampleRate * preEmphasisTau))

	out := make([]float64, len(samples))
	xPrev := samples[0]
	yPrev := samples[0]
	for i, x := range samples {
		y := x - xPrev + alpha*yPrev
		out[i] = y
		xPrev = x
		yPrev = y
	}
	return out
}

func applyGain(samples []float64, gain float64) {
	for i := range samples {
		samples[i] *= gain
	}
}

func appendSilence(samples []float64, ms int, sampleRate float64) []float64 {
	n := int(float64(ms) / 1000 * sampleRate)
	return append(samples, make([]float64, n)...)
}

func prependSilence(samples []float64, ms int, sampleRate float64) []float64 {
	n := int(float64(ms) / 1000 * sampleRate)
	out := make([]float64, 0, n+len(samples))
	out = append(out, make([]float64, n)...)
	return append(out, samples...)
}
