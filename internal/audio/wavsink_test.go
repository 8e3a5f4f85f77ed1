package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kb9vht/afsk25/internal/modemerr"
)

func TestWAVSink_writesReadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	sink, err := NewWAVSink(path, 44100)
	require.NoError(t, err)
	require.NoError(t, sink.Start())

	samples := make([]float64, 4410)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 44100)
	}
	n, err := sink.Write(samples)
	require.NoError(t, err)
	assert.Equal(t, len(samples), n)
	assert.True(t, sink.WaitWriteCompleted(0))
	require.NoError(t, sink.Stop())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint32(44100), dec.SampleRate)
}

func TestWAVSink_clampsOutOfRangeSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clamped.wav")
	sink, err := NewWAVSink(path, 8000)
	require.NoError(t, err)
	require.NoError(t, sink.Start())

	_, err = sink.Write([]float64{2.0, -2.0, 0.0})
	require.NoError(t, err)
	require.NoError(t, sink.Stop())
}

func TestWAVSink_writeAfterStopReturnsInvalidState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.wav")
	sink, err := NewWAVSink(path, 8000)
	require.NoError(t, err)
	require.NoError(t, sink.Start())
	require.NoError(t, sink.Stop())

	_, err = sink.Write([]float64{0.0})
	assert.True(t, errors.Is(err, modemerr.ErrInvalidState))
}
