// Package config loads the JSON configuration file of §4.16/§6: top-level
// audio_streams/ptt_controls/modulators arrays, each entry's type field
// selecting a concrete constructor.
//
// Grounded on the teacher's config.go for its overall shape (one entry per
// channel, descriptive per-field validation errors) but using
// encoding/json rather than the teacher's hand-rolled .conf line parser,
// per this spec's explicit "config is JSON" requirement.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kb9vht/afsk25/internal/audio"
	"github.com/kb9vht/afsk25/internal/modem"
	"github.com/kb9vht/afsk25/internal/ptt"
)

// AudioStream is one audio_streams[] entry.
type AudioStream struct {
	Name       string `json:"name"`
	Type       string `json:"type"` // "portaudio", "alsa", "wav"
	SampleRate int    `json:"sample_rate"`
	Path       string `json:"path,omitempty"`   // wav
	Device     string `json:"device,omitempty"` // alsa/portaudio device title
}

// PTTControl is one ptt_controls[] entry.
type PTTControl struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // "null", "serial", "library", "tcp", "chained"
	Device      string   `json:"device,omitempty"`
	Baud        int      `json:"baud,omitempty"`
	Line        string   `json:"line,omitempty"` // "rts" or "dtr"
	Inverted    bool     `json:"inverted,omitempty"`
	LibraryPath string   `json:"library_path,omitempty"`
	Address     string   `json:"address,omitempty"` // tcp host:port
	Members     []string `json:"members,omitempty"` // chained: names of other ptt_controls
}

// Modulator is one modulators[] entry: a channel's full modem config plus
// references to the audio stream and PTT control it drives.
type Modulator struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"` // "afsk"
	AudioStream    string  `json:"audio_stream"`
	PTTControl     string  `json:"ptt_control"`
	SampleRate     float64 `json:"sample_rate"`
	Baud           float64 `json:"baud"`
	MarkFreq       float64 `json:"mark_freq"`
	SpaceFreq      float64 `json:"space_freq"`
	Alpha          float64 `json:"alpha"`
	TXDelayMS      int     `json:"txdelay_ms"`
	TXTailMS       int     `json:"txtail_ms"`
	PreEmphasis    bool    `json:"pre_emphasis"`
	Gain           float64 `json:"gain"`
	BeginSilenceMS int     `json:"begin_silence_ms"`
	EndSilenceMS   int     `json:"end_silence_ms"`
	FX25MinCheck   int     `json:"fx25_min_check,omitempty"`
}

// KISSListener is one kiss_listeners[] entry: a KISS transport that feeds
// client-submitted data frames into one channel's transmitter (§4.12).
type KISSListener struct {
	Name    string `json:"name"`
	Type    string `json:"type"` // "tcp", "serial"
	Channel string `json:"channel"`
	Address string `json:"address,omitempty"` // tcp listen address, e.g. ":8001"
	Device  string `json:"device,omitempty"`  // serial
	Baud    int    `json:"baud,omitempty"`    // serial
}

// File is the top-level configuration document.
type File struct {
	AudioStreams  []AudioStream  `json:"audio_streams"`
	PTTControls   []PTTControl   `json:"ptt_controls"`
	Modulators    []Modulator    `json:"modulators"`
	KISSListeners []KISSListener `json:"kiss_listeners,omitempty"`
}

// Load reads and parses path, validating every entry's type and every
// modulator's and KISS listener's references. It applies no defaults;
// ToModemConfig does that when a modulator is turned into a modem.Config.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	streams := map[string]bool{}
	for _, s := range f.AudioStreams {
		if s.Name == "" {
			return fmt.Errorf("config: audio_streams entry missing \"name\"")
		}
		switch s.Type {
		case "portaudio", "alsa", "wav":
		default:
			return fmt.Errorf("config: audio_streams[%q].type %q is not one of portaudio/alsa/wav", s.Name, s.Type)
		}
		streams[s.Name] = true
	}

	controls := map[string]bool{}
	for _, p := range f.PTTControls {
		if p.Name == "" {
			return fmt.Errorf("config: ptt_controls entry missing \"name\"")
		}
		switch p.Type {
		case "null", "serial", "library", "tcp", "chained":
		default:
			return fmt.Errorf("config: ptt_controls[%q].type %q is not one of null/serial/library/tcp/chained", p.Name, p.Type)
		}
		controls[p.Name] = true
	}

	channels := map[string]bool{}
	for _, m := range f.Modulators {
		if m.Name == "" {
			return fmt.Errorf("config: modulators entry missing \"name\"")
		}
		if m.Type != "afsk" {
			return fmt.Errorf("config: modulators[%q].type %q is not supported (only \"afsk\")", m.Name, m.Type)
		}
		if !streams[m.AudioStream] {
			return fmt.Errorf("config: modulators[%q].audio_stream %q does not match any audio_streams entry", m.Name, m.AudioStream)
		}
		if !controls[m.PTTControl] {
			return fmt.Errorf("config: modulators[%q].ptt_control %q does not match any ptt_controls entry", m.Name, m.PTTControl)
		}
		channels[m.Name] = true
	}

	for _, k := range f.KISSListeners {
		if k.Name == "" {
			return fmt.Errorf("config: kiss_listeners entry missing \"name\"")
		}
		switch k.Type {
		case "tcp", "serial":
		default:
			return fmt.Errorf("config: kiss_listeners[%q].type %q is not one of tcp/serial", k.Name, k.Type)
		}
		if !channels[k.Channel] {
			return fmt.Errorf("config: kiss_listeners[%q].channel %q does not match any modulators entry", k.Name, k.Channel)
		}
	}

	return nil
}

// BuildSink constructs the audio.Sink for one audio_streams entry.
func BuildSink(s AudioStream) (audio.Sink, error) {
	switch s.Type {
	case "wav":
		return audio.NewWAVSink(s.Path, s.SampleRate)
	case "alsa":
		return audio.OpenALSASink(s.Device, s.SampleRate)
	case "portaudio":
		return audio.NewPortAudioSink(s.SampleRate)
	default:
		return nil, fmt.Errorf("config: unknown audio stream type %q", s.Type)
	}
}

// BuildPTT constructs the ptt.Controller for one ptt_controls entry.
// resolved supplies already-built controllers for "chained" member lookup;
// cmd/modem's buildAllPTT populates it in dependency order.
func BuildPTT(p PTTControl, resolved map[string]ptt.Controller) (ptt.Controller, error) {
	switch p.Type {
	case "null":
		return ptt.NewNull(), nil
	case "tcp":
		return ptt.DialTCP(p.Address)
	case "chained":
		members := make([]ptt.Controller, 0, len(p.Members))
		for _, name := range p.Members {
			m, ok := resolved[name]
			if !ok {
				return nil, fmt.Errorf("config: ptt_controls[%q] chains to unknown member %q", p.Name, name)
			}
			members = append(members, m)
		}
		return ptt.NewChained(members...), nil
	default:
		if ctrl, handled, err := buildPlatformPTT(p); handled {
			return ctrl, err
		}
		return nil, fmt.Errorf("config: ptt_controls[%q].type %q is not supported on this platform/build", p.Name, p.Type)
	}
}

// ToModemConfig converts a modulators[] entry into the modem package's
// runtime Config, applying the documented defaults (gain 1.0 when unset).
func (m Modulator) ToModemConfig() modem.Config {
	gain := m.Gain
	if gain == 0 {
		gain = 1.0
	}
	return modem.Config{
		SampleRate:     m.SampleRate,
		Baud:           m.Baud,
		MarkFreq:       m.MarkFreq,
		SpaceFreq:      m.SpaceFreq,
		Alpha:          m.Alpha,
		TXDelayMS:      m.TXDelayMS,
		TXTailMS:       m.TXTailMS,
		PreEmphasis:    m.PreEmphasis,
		GainLinear:     gain,
		BeginSilenceMS: m.BeginSilenceMS,
		EndSilenceMS:   m.EndSilenceMS,
		FX25MinCheck:   m.FX25MinCheck,
	}
}
