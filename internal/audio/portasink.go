package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/kb9vht/afsk25/internal/modemerr"
)

// PortAudioSink writes the transmit pipeline's output through PortAudio's
// cross-platform output stream. Not exercised anywhere by the teacher
// (portaudio sat in its go.mod unused); grounded instead on the package's
// own documented OpenDefaultStream/callback-stream idiom.
type PortAudioSink struct {
	stream     *portaudio.Stream
	sampleRate int

	mu      sync.Mutex
	pending []float32
	drained chan struct{}
}

// NewPortAudioSink opens the default output device, mono float32, at
// sampleRate.
func NewPortAudioSink(sampleRate int) (*PortAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: initializing PortAudio: %v", modemerr.ErrDeviceOpenFailed, err)
	}

	s := &PortAudioSink{sampleRate: sampleRate, drained: make(chan struct{})}

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), 0, s.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: opening default output stream at %d Hz: %v", modemerr.ErrDeviceOpenFailed, sampleRate, err)
	}
	s.stream = stream
	return s, nil
}

func (s *PortAudioSink) callback(out []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := copy(out, s.pending)
	s.pending = s.pending[n:]
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	if len(s.pending) == 0 {
		select {
		case s.drained <- struct{}{}:
		default:
		}
	}
}

func (s *PortAudioSink) Start() error {
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("%w: %v", modemerr.ErrDeviceLost, err)
	}
	return nil
}

func (s *PortAudioSink) Stop() error {
	err := s.stream.Stop()
	portaudio.Terminate()
	if err != nil {
		return fmt.Errorf("%w: %v", modemerr.ErrDeviceLost, err)
	}
	return nil
}

func (s *PortAudioSink) Write(samples []float64) (int, error) {
	s.mu.Lock()
	for _, v := range samples {
		s.pending = append(s.pending, float32(clamp(v, -1, 1)))
	}
	s.mu.Unlock()
	return len(samples), nil
}

func (s *PortAudioSink) WaitWriteCompleted(timeoutMS int) bool {
	select {
	case <-s.drained:
		return true
	case <-afterMS(timeoutMS):
		return false
	}
}

func (s *PortAudioSink) SampleRate() int { return s.sampleRate }
func (s *PortAudioSink) Channels() int   { return 1 }
