package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/kb9vht/afsk25/internal/modemerr"
)

// WAVSink writes the transmit pipeline's output to a .wav file: offline
// test-tone generation and golden-file regression tests of the whole
// transmit path, grounded on go-audio/wav's Encoder.
type WAVSink struct {
	file       *os.File
	enc        *wav.Encoder
	sampleRate int
	closed     bool
}

// NewWAVSink creates (truncating) path and prepares a mono 16-bit PCM
// encoder at sampleRate.
func NewWAVSink(path string, sampleRate int) (*WAVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	return &WAVSink{file: f, enc: enc, sampleRate: sampleRate}, nil
}

func (s *WAVSink) Start() error { return nil }

func (s *WAVSink) Stop() error {
	s.closed = true
	if err := s.enc.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func (s *WAVSink) Write(samples []float64) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("%w: write after Stop", modemerr.ErrInvalidState)
	}
	ints := make([]int, len(samples))
	for i, v := range samples {
		ints[i] = int(math.Round(clamp(v, -1, 1) * 32767))
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: s.sampleRate},
		Data:           ints,
		SourceBitDepth: 16,
	}
	if err := s.enc.Write(buf); err != nil {
		return 0, err
	}
	return len(samples), nil
}

// WaitWriteCompleted always returns true: writes to the file encoder are
// synchronous, so there is nothing to drain.
func (s *WAVSink) WaitWriteCompleted(timeoutMS int) bool { return true }

func (s *WAVSink) SampleRate() int { return s.sampleRate }
func (s *WAVSink) Channels() int   { return 1 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
