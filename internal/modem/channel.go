package modem

// Channel adapts an Orchestrator to the control.Target interface of §4.15,
// exposing the channel's name/type, software gain, sink lifecycle, and PTT
// state to a connected control client.
type Channel struct {
	*Orchestrator
	name string
}

// NewChannel names an already-built Orchestrator for control-server lookup.
func NewChannel(name string, orch *Orchestrator) *Channel {
	return &Channel{Orchestrator: orch, name: name}
}

func (c *Channel) Name() string { return c.name }
func (c *Channel) Type() string { return "afsk" }

// Volume exposes the linear output gain applied after pre-emphasis.
func (c *Channel) Volume() (float64, error) { return c.Config.GainLinear, nil }

func (c *Channel) SetVolume(v float64) error {
	c.Config.GainLinear = v
	return nil
}

func (c *Channel) SampleRate() (int, error) { return c.Sink.SampleRate(), nil }
func (c *Channel) Channels() (int, error)   { return c.Sink.Channels(), nil }

func (c *Channel) Start() error { return c.Sink.Start() }
func (c *Channel) Stop() error  { return c.Sink.Stop() }

func (c *Channel) SetPTT(active bool) error { return c.PTT.Set(active) }
func (c *Channel) GetPTT() (bool, error)    { return c.PTT.Get() }
