// Command gentone writes a calibration WAV file of alternating mark/space
// AFSK tones, for checking a transmitter's audio levels by ear or on a
// scope. The teacher's own gen_tone test program (cmd/gen_tone) generates
// tones straight to a sound card via cgo and is marked in its own source as
// "known to fail with an assertion error, needs debugging and fixing"; this
// is its replacement, built on the pure-Go modulator instead.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kb9vht/afsk25/internal/audio"
	"github.com/kb9vht/afsk25/internal/dds"
)

func main() {
	var out = pflag.StringP("out", "o", "calibration.wav", "Output WAV file path.")
	var sampleRate = pflag.Float64P("sample-rate", "r", 44100, "Audio sample rate.")
	var baud = pflag.Float64P("baud", "b", 1200, "Bit rate.")
	var markFreq = pflag.Float64("mark-freq", 1200, "Mark tone frequency, Hz.")
	var spaceFreq = pflag.Float64("space-freq", 2200, "Space tone frequency, Hz.")
	var alpha = pflag.Float64("alpha", 1.0, "Frequency-smoothing coefficient, 0 < alpha <= 1.")
	var seconds = pflag.Float64P("seconds", "s", 2.0, "Seconds of each tone to generate.")
	var alternating = pflag.Bool("alternating", false, "Alternate mark/space every bit instead of holding one tone for the whole duration.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gentone - write a calibration WAV of AFSK mark/space tones.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	mod := dds.New(*sampleRate, *markFreq, *spaceFreq, *baud, *alpha)
	bitCount := int(*seconds * *baud)

	sink, err := audio.NewWAVSink(*out, int(*sampleRate))
	if err != nil {
		fmt.Fprintf(os.Stderr, "gentone: opening %s: %v\n", *out, err)
		os.Exit(1)
	}

	if err := sink.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "gentone: starting sink: %v\n", err)
		os.Exit(1)
	}

	write := func(bit byte, count int) {
		samples := make([]float64, 0, count)
		for i := 0; i < count; i++ {
			n := mod.NextSamplesPerBit()
			samples = mod.GenerateBit(bit, n, samples)
		}
		if _, err := sink.Write(samples); err != nil {
			fmt.Fprintf(os.Stderr, "gentone: write: %v\n", err)
			os.Exit(1)
		}
	}

	if *alternating {
		for i := 0; i < bitCount; i++ {
			write(byte(i%2), 1)
		}
	} else {
		write(1, bitCount)
		write(0, bitCount)
	}

	if err := sink.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "gentone: closing %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s\n", *out)
}
