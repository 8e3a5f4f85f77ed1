package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kb9vht/afsk25/internal/ptt"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validConfig = `{
  "audio_streams": [
    {"name": "radio0", "type": "wav", "sample_rate": 44100, "path": "out.wav"}
  ],
  "ptt_controls": [
    {"name": "none", "type": "null"}
  ],
  "modulators": [
    {
      "name": "chan0", "type": "afsk",
      "audio_stream": "radio0", "ptt_control": "none",
      "sample_rate": 44100, "baud": 1200,
      "mark_freq": 1200, "space_freq": 2200, "alpha": 1.0,
      "txdelay_ms": 300, "txtail_ms": 50,
      "begin_silence_ms": 0, "end_silence_ms": 0
    }
  ]
}`

func TestLoad_validConfig(t *testing.T) {
	path := writeConfig(t, validConfig)
	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Modulators, 1)
	assert.Equal(t, "chan0", f.Modulators[0].Name)
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_rejectsUnknownAudioStreamType(t *testing.T) {
	path := writeConfig(t, `{"audio_streams":[{"name":"a","type":"bogus"}]}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "audio_streams")
}

func TestLoad_rejectsUnknownPTTType(t *testing.T) {
	path := writeConfig(t, `{"ptt_controls":[{"name":"a","type":"bogus"}]}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "ptt_controls")
}

func TestLoad_rejectsDanglingAudioStreamReference(t *testing.T) {
	path := writeConfig(t, `{
		"ptt_controls":[{"name":"none","type":"null"}],
		"modulators":[{"name":"chan0","type":"afsk","audio_stream":"nope","ptt_control":"none"}]
	}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "audio_stream")
}

func TestLoad_rejectsDanglingPTTReference(t *testing.T) {
	path := writeConfig(t, `{
		"audio_streams":[{"name":"radio0","type":"wav","path":"x.wav"}],
		"modulators":[{"name":"chan0","type":"afsk","audio_stream":"radio0","ptt_control":"nope"}]
	}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "ptt_control")
}

func TestLoad_acceptsKISSListenerReferencingExistingChannel(t *testing.T) {
	path := writeConfig(t, validConfig[:len(validConfig)-1]+`,
	  "kiss_listeners": [
	    {"name": "kiss0", "type": "tcp", "channel": "chan0", "address": ":8001"}
	  ]
	}`)
	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.KISSListeners, 1)
	assert.Equal(t, "tcp", f.KISSListeners[0].Type)
}

func TestLoad_rejectsKISSListenerUnknownType(t *testing.T) {
	path := writeConfig(t, validConfig[:len(validConfig)-1]+`,
	  "kiss_listeners": [
	    {"name": "kiss0", "type": "bogus", "channel": "chan0"}
	  ]
	}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "kiss_listeners")
}

func TestLoad_rejectsKISSListenerDanglingChannelReference(t *testing.T) {
	path := writeConfig(t, validConfig[:len(validConfig)-1]+`,
	  "kiss_listeners": [
	    {"name": "kiss0", "type": "tcp", "channel": "nope", "address": ":8001"}
	  ]
	}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "channel")
}

func TestBuildSink_wav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	sink, err := BuildSink(AudioStream{Type: "wav", Path: path, SampleRate: 8000})
	require.NoError(t, err)
	assert.Equal(t, 8000, sink.SampleRate())
}

func TestBuildPTT_null(t *testing.T) {
	c, err := BuildPTT(PTTControl{Type: "null"}, nil)
	require.NoError(t, err)
	active, err := c.Get()
	require.NoError(t, err)
	assert.False(t, active)
}

func TestBuildPTT_chainedResolvesMembers(t *testing.T) {
	resolved := map[string]ptt.Controller{"a": ptt.NewNull(), "b": ptt.NewNull()}
	c, err := BuildPTT(PTTControl{Name: "x", Type: "chained", Members: []string{"a", "b"}}, resolved)
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

func TestBuildPTT_chainedUnknownMemberErrors(t *testing.T) {
	_, err := BuildPTT(PTTControl{Name: "x", Type: "chained", Members: []string{"missing"}}, map[string]ptt.Controller{})
	assert.Error(t, err)
}

func TestToModemConfig_defaultsGainToOne(t *testing.T) {
	m := Modulator{SampleRate: 44100, Baud: 1200}
	cfg := m.ToModemConfig()
	assert.Equal(t, 1.0, cfg.GainLinear)
}

func TestToModemConfig_preservesExplicitGain(t *testing.T) {
	m := Modulator{Gain: 0.5}
	cfg := m.ToModemConfig()
	assert.Equal(t, 0.5, cfg.GainLinear)
}
