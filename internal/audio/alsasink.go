//go:build linux

package audio

import (
	"fmt"
	"math"
	"time"

	yalsa "github.com/yobert/alsa"

	"github.com/kb9vht/afsk25/internal/modemerr"
)

// ALSASink writes the transmit pipeline's output to a Linux ALSA playback
// device. Grounded on the ausocean-av alsa package's card-enumeration and
// negotiate-then-Prepare device setup, mirrored here for playback instead
// of capture.
type ALSASink struct {
	dev        *yalsa.Device
	sampleRate int
	periodSize int
}

// OpenALSASink opens the named (or first available) playback device at the
// requested sample rate, mono.
func OpenALSASink(title string, sampleRate int) (*ALSASink, error) {
	cards, err := yalsa.OpenCards()
	if err != nil {
		return nil, fmt.Errorf("%w: opening ALSA cards: %v", modemerr.ErrDeviceOpenFailed, err)
	}
	defer yalsa.CloseCards(cards)

	var chosen *yalsa.Device
	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			continue
		}
		for _, d := range devices {
			if d.Type != yalsa.PCM || !d.Play {
				continue
			}
			if title == "" || d.Title == title {
				chosen = d
				break
			}
		}
		if chosen != nil {
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: no playback device found (title %q)", modemerr.ErrDeviceOpenFailed, title)
	}

	if err := chosen.Open(); err != nil {
		return nil, fmt.Errorf("%w: %v", modemerr.ErrDeviceOpenFailed, err)
	}

	if _, err := chosen.NegotiateChannels(1); err != nil {
		chosen.Close()
		return nil, fmt.Errorf("%w: negotiating mono channel: %v", modemerr.ErrDeviceFormatUnsupport, err)
	}
	rate, err := chosen.NegotiateRate(sampleRate)
	if err != nil {
		chosen.Close()
		return nil, fmt.Errorf("%w: negotiating rate %d: %v", modemerr.ErrDeviceFormatUnsupport, sampleRate, err)
	}
	if _, err := chosen.NegotiateFormat(yalsa.S16_LE); err != nil {
		chosen.Close()
		return nil, fmt.Errorf("%w: negotiating S16_LE: %v", modemerr.ErrDeviceFormatUnsupport, err)
	}
	periodSize, err := chosen.NegotiatePeriodSize(1024)
	if err != nil {
		chosen.Close()
		return nil, fmt.Errorf("%w: negotiating period size: %v", modemerr.ErrDeviceBuffer, err)
	}
	if _, err := chosen.NegotiateBufferSize(periodSize * 4); err != nil {
		chosen.Close()
		return nil, fmt.Errorf("%w: negotiating buffer size: %v", modemerr.ErrDeviceBuffer, err)
	}
	if err := chosen.Prepare(); err != nil {
		chosen.Close()
		return nil, fmt.Errorf("%w: preparing device: %v", modemerr.ErrDeviceOpenFailed, err)
	}

	return &ALSASink{dev: chosen, sampleRate: rate, periodSize: periodSize}, nil
}

func (s *ALSASink) Start() error { return nil }
func (s *ALSASink) Stop() error  { return s.dev.Close() }

func (s *ALSASink) Write(samples []float64) (int, error) {
	buf := s.dev.NewBufferDuration(time.Duration(float64(len(samples)) / float64(s.sampleRate) * float64(time.Second)))
	for i, v := range samples {
		sample := int16(math.Round(clamp(v, -1, 1) * 32767))
		if 2*i+1 < len(buf.Data) {
			buf.Data[2*i] = byte(sample)
			buf.Data[2*i+1] = byte(sample >> 8)
		}
	}
	if err := s.dev.Write(buf.Data); err != nil {
		return 0, fmt.Errorf("%w: %v", modemerr.ErrDeviceUnderOverrun, err)
	}
	return len(samples), nil
}

// WaitWriteCompleted always returns true: yalsa's Write blocks until ALSA
// has accepted the period, so there is no separate drain step to wait for.
func (s *ALSASink) WaitWriteCompleted(timeoutMS int) bool { return true }

func (s *ALSASink) SampleRate() int { return s.sampleRate }
func (s *ALSASink) Channels() int   { return 1 }
