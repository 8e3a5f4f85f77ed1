package dds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestModulator_samplesAreBoundedUnitCosine(t *testing.T) {
	m := New(44100, 1200, 2200, 1200, 1.0)
	out := m.GenerateBits([]byte{1, 0, 1, 1, 0})
	require.NotEmpty(t, out)
	for _, s := range out {
		assert.LessOrEqual(t, math.Abs(s), 1.0+1e-9)
	}
}

func TestModulator_meanSamplesPerBitTracksExactly(t *testing.T) {
	m := New(44100, 1200, 2200, 1200, 1.0)
	const bits = 10000
	total := 0
	for i := 0; i < bits; i++ {
		total += m.NextSamplesPerBit()
	}
	expected := m.samplesPerBit * bits
	assert.InDelta(t, expected, float64(total), 1.0)
}

func TestModulator_resetClearsState(t *testing.T) {
	m := New(44100, 1200, 2200, 1200, 0.08)
	m.GenerateBits([]byte{1, 1, 1, 0, 0})
	require.NotZero(t, m.phase)

	m.Reset()
	assert.Zero(t, m.phase)
	assert.Zero(t, m.freqSmooth)
	assert.Zero(t, m.spbError)
}

func TestModulator_hardKeyingAlphaOneLocksFrequencyImmediately(t *testing.T) {
	m := New(44100, 1200, 2200, 1200, 1.0)
	m.GenerateBit(1, 1, nil)
	assert.Equal(t, 1200.0, m.freqSmooth)
}

func TestModulator_phaseStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 200).Draw(t, "n")
		bits := make([]byte, n)
		for i := range bits {
			bits[i] = byte(rapid.IntRange(0, 1).Draw(t, "bit"))
		}
		m := New(44100, 1200, 2200, 1200, rapid.Float64Range(0.01, 1.0).Draw(t, "alpha"))
		m.GenerateBits(bits)
		assert.GreaterOrEqual(t, m.phase, 0.0)
		assert.Less(t, m.phase, 2*math.Pi)
	})
}
