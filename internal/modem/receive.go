package modem

import "github.com/kb9vht/afsk25/internal/ax25"

// Receiver implements §4.9's receive: feed already-sliced hard bits to the
// streaming decoder and invoke registered callbacks with every
// successfully decoded packet. Direwolf's own receive orchestration is a
// documented placeholder in source; this is a from-scratch, spec-only
// implementation, in the idiom of the rest of this package.
type Receiver struct {
	state     *ax25.BitstreamState
	callbacks []func(ax25.Packet)
}

// NewReceiver returns a Receiver ready to synchronize on the first flag.
func NewReceiver() *Receiver {
	return &Receiver{state: ax25.NewBitstreamState()}
}

// OnPacket registers a callback invoked (synchronously, on the feeding
// goroutine) for every frame that decodes successfully.
func (r *Receiver) OnPacket(cb func(ax25.Packet)) {
	r.callbacks = append(r.callbacks, cb)
}

// FeedBit advances the decoder by one hard bit, invoking callbacks on a
// successful decode.
func (r *Receiver) FeedBit(bit byte) {
	if r.state.Step(bit) {
		pkt := r.state.Frame.Packet
		for _, cb := range r.callbacks {
			cb(pkt)
		}
	}
}

// FeedBits is a convenience wrapper around FeedBit for a whole slice.
func (r *Receiver) FeedBits(bits []byte) {
	for _, b := range bits {
		r.FeedBit(b)
	}
}
