//go:build linux

package ptt

import (
	"fmt"

	"github.com/pkg/term"
	"golang.org/x/sys/unix"

	"github.com/kb9vht/afsk25/internal/modemerr"
)

// Line selects which modem control line a Serial controller drives.
type Line int

const (
	LineRTS Line = iota
	LineDTR
)

// Serial drives RTS or DTR on an owned serial port. A trigger polarity
// inverts the active/inactive mapping (some radio interfaces wire PTT to
// the line being pulled low, not high).
//
// Grounded on the teacher's ptt.go (_TIOCM/RTS_ON/RTS_OFF/DTR_ON/DTR_OFF,
// built on golang.org/x/sys/unix's TIOCMGET/TIOCMSET) and serial_port.go
// (github.com/pkg/term.Open for the port handle itself).
type Serial struct {
	port     *term.Term
	line     Line
	inverted bool
}

// OpenSerial opens device at baud and returns a Serial PTT driving line,
// with the line forced inactive immediately (clearing any on-open RTS
// assertion some OS drivers perform).
func OpenSerial(device string, baud int, line Line, inverted bool) (*Serial, error) {
	t, err := term.Open(device, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", modemerr.ErrDeviceOpenFailed, device, err)
	}

	s := &Serial{port: t, line: line, inverted: inverted}
	if err := s.Set(false); err != nil {
		t.Close()
		return nil, fmt.Errorf("%w: clearing PTT line on open: %v", modemerr.ErrDeviceOpenFailed, err)
	}
	return s, nil
}

func (s *Serial) Set(active bool) error {
	on := active
	if s.inverted {
		on = !on
	}
	return tiocm(int(s.port.Fd()), s.line, on)
}

func (s *Serial) Get() (bool, error) {
	stuff, err := unix.IoctlGetInt(int(s.port.Fd()), unix.TIOCMGET)
	if err != nil {
		return false, fmt.Errorf("%w: %v", modemerr.ErrDeviceLost, err)
	}
	on := stuff&lineBit(s.line) != 0
	if s.inverted {
		on = !on
	}
	return on, nil
}

func (s *Serial) Close() error { return s.port.Close() }

func lineBit(l Line) int {
	if l == LineDTR {
		return unix.TIOCM_DTR
	}
	return unix.TIOCM_RTS
}

// tiocm sets or clears the given modem control line, ported from the
// teacher's _TIOCM read-modify-write of TIOCMGET/TIOCMSET.
func tiocm(fd int, line Line, on bool) error {
	stuff, err := unix.IoctlGetInt(fd, unix.TIOCMGET)
	if err != nil {
		return fmt.Errorf("%w: %v", modemerr.ErrDeviceLost, err)
	}
	bit := lineBit(line)
	if on {
		stuff |= bit
	} else {
		stuff &^= bit
	}
	if err := unix.IoctlSetInt(fd, unix.TIOCMSET, stuff); err != nil {
		return fmt.Errorf("%w: %v", modemerr.ErrDeviceLost, err)
	}
	return nil
}
