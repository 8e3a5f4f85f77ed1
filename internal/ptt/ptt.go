// Package ptt implements the push-to-talk abstraction of §4.10: a single
// set(bool)/get() capability with several backing transports (software
// only, a serial line's RTS/DTR, a dynamically loaded C library, a remote
// TCP controller, and a fan-out chain of any of the above).
package ptt

// Controller is the capability every PTT backend exposes.
type Controller interface {
	Set(active bool) error
	Get() (bool, error)
	Close() error
}

// Null is a software-only PTT that just remembers the last state it was
// told to assume; useful for tests and dry runs.
type Null struct {
	state bool
}

// NewNull returns a Null controller, inactive.
func NewNull() *Null { return &Null{} }

func (n *Null) Set(active bool) error { n.state = active; return nil }
func (n *Null) Get() (bool, error)    { return n.state, nil }
func (n *Null) Close() error          { return nil }

// Chained fans Set out to every member controller and serializes on it
// (§5: "chained PTT serializes on set"); Get reports true iff any member
// reports true.
type Chained struct {
	members []Controller
}

// NewChained builds a Chained controller over members, in the order Set
// will be applied.
func NewChained(members ...Controller) *Chained {
	return &Chained{members: members}
}

func (c *Chained) Set(active bool) error {
	var firstErr error
	for _, m := range c.members {
		if err := m.Set(active); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Chained) Get() (bool, error) {
	for _, m := range c.members {
		v, err := m.Get()
		if err != nil {
			return false, err
		}
		if v {
			return true, nil
		}
	}
	return false, nil
}

func (c *Chained) Close() error {
	var firstErr error
	for _, m := range c.members {
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
