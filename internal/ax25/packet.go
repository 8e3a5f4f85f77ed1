package ax25

import "github.com/kb9vht/afsk25/internal/modemerr"

// MaxPathLen is the maximum number of digipeater addresses in a path.
const MaxPathLen = 8

// MaxInfoLen is the AX.25 2.0 information-field cap.
const MaxInfoLen = 256

// Packet is the logical content of an AX.25 UI frame: source, destination,
// digipeater path, and information field.
type Packet struct {
	From Address
	To   Address
	Path []Address
	Data []byte
}

// Validate checks the structural invariants of §3: path length and info
// length caps. It does not re-validate the addresses themselves (those are
// checked at parse time).
func (p Packet) Validate() error {
	if len(p.Path) > MaxPathLen {
		return modemerr.NewFrameError(modemerr.ErrInvalidArgument, "path exceeds 8 digipeater addresses")
	}
	if len(p.Data) > MaxInfoLen {
		return modemerr.NewFrameError(modemerr.ErrInvalidArgument, "info field exceeds 256 octets")
	}
	return nil
}
