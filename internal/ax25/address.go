package ax25

// Package ax25 implements the AX.25 UI-frame wire format used by APRS:
// address encoding, the FCS, frame assembly/disassembly, the bit-level
// HDLC codec, and the streaming decoder state machine.
//
// This file covers address parsing/formatting and the 7-byte wire form.
// Grounded on the teacher's ax25_pad.go (ax25_parse_addr, SET_LAST_ADDR_FLAG,
// ax25_get_addr_with_ssid) translated to the exact rules of this spec.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kb9vht/afsk25/internal/modemerr"
)

// AddrLen is the size, in bytes, of one AX.25 address on the wire.
const AddrLen = 7

// Address is a single AX.25 station address: callsign text, SSID, the
// has-been-repeated mark bit, and the two reserved bits (always 1,1 on
// transmit; preserved verbatim from whatever was received).
type Address struct {
	Text     string  // 1-6 uppercase alphanumerics.
	SSID     int     // 0-15.
	Mark     bool    // "H" bit: has-been-repeated (digipeated) flag.
	Reserved [2]bool // R1, R2; default (true, true).
}

// NewAddress builds an Address with the default reserved bits.
func NewAddress(text string, ssid int) Address {
	return Address{Text: text, SSID: ssid, Reserved: [2]bool{true, true}}
}

// ParseAddress parses the printable form TEXT[-SSID][*] into an Address.
func ParseAddress(s string) (Address, error) {
	if len(s) == 0 {
		return Address{}, modemerr.NewFrameError(modemerr.ErrParse, "empty address")
	}
	if len(s) > 9 {
		return Address{}, modemerr.NewFrameError(modemerr.ErrParse, fmt.Sprintf("address %q longer than 9 characters", s))
	}

	rest := s
	mark := false
	if strings.HasSuffix(rest, "*") {
		mark = true
		rest = rest[:len(rest)-1]
	}

	text := rest
	ssid := 0
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		text = rest[:i]
		ssidStr := rest[i+1:]
		if ssidStr == "" {
			return Address{}, modemerr.NewFrameError(modemerr.ErrParse, fmt.Sprintf("address %q has empty SSID", s))
		}
		if len(ssidStr) > 1 && ssidStr[0] == '0' {
			return Address{}, modemerr.NewFrameError(modemerr.ErrParse, fmt.Sprintf("address %q has leading zero in SSID", s))
		}
		n, err := strconv.Atoi(ssidStr)
		if err != nil {
			return Address{}, modemerr.NewFrameError(modemerr.ErrParse, fmt.Sprintf("address %q has non-numeric SSID", s))
		}
		if n < 0 || n > 15 {
			n = 0
		}
		ssid = n
	}

	if text == "" {
		return Address{}, modemerr.NewFrameError(modemerr.ErrParse, "empty callsign text")
	}
	if len(text) > 6 {
		return Address{}, modemerr.NewFrameError(modemerr.ErrParse, fmt.Sprintf("callsign %q longer than 6 characters", text))
	}
	for _, r := range text {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return Address{}, modemerr.NewFrameError(modemerr.ErrParse, fmt.Sprintf("callsign %q has character other than uppercase letter or digit", text))
		}
	}

	return Address{Text: text, SSID: ssid, Mark: mark, Reserved: [2]bool{true, true}}, nil
}

// Format renders the printable TEXT[-SSID][*] form.
func (a Address) Format() string {
	var b strings.Builder
	b.WriteString(a.Text)
	if a.SSID != 0 {
		fmt.Fprintf(&b, "-%d", a.SSID)
	}
	if a.Mark {
		b.WriteByte('*')
	}
	return b.String()
}

func (a Address) String() string { return a.Format() }

// encode writes the 7-byte wire form of a, with the given "last address in
// path" bit. Characters are left-shifted one bit and right space-padded;
// byte 6 is H|R1|R2|SSID(4 bits)|Last from MSB to LSB.
func (a Address) encode(last bool) [AddrLen]byte {
	var out [AddrLen]byte
	for i := range AddrLen - 1 {
		c := byte(' ')
		if i < len(a.Text) {
			c = a.Text[i]
		}
		out[i] = c << 1
	}

	var b6 byte
	if a.Mark {
		b6 |= 0x80
	}
	if a.Reserved[0] {
		b6 |= 0x40
	}
	if a.Reserved[1] {
		b6 |= 0x20
	}
	b6 |= byte(a.SSID&0x0f) << 1
	if last {
		b6 |= 0x01
	}
	out[AddrLen-1] = b6

	return out
}

// decodeAddress parses one 7-byte wire-form address. It returns the
// trailing "last address" bit as read off the wire; callers decide what
// to do with it (the frame codec uses it to find the end of the path).
func decodeAddress(b []byte) (addr Address, last bool, err error) {
	if len(b) < AddrLen {
		return Address{}, false, modemerr.NewFrameError(modemerr.ErrFrameTooShort, "address needs 7 bytes")
	}

	var text strings.Builder
	for i := 0; i < AddrLen-1; i++ {
		c := b[i] >> 1
		if c != ' ' {
			text.WriteByte(c)
		}
	}

	b6 := b[AddrLen-1]
	addr = Address{
		Text: text.String(),
		SSID: int((b6 >> 1) & 0x0f),
		Mark: b6&0x80 != 0,
		Reserved: [2]bool{
			b6&0x40 != 0,
			b6&0x20 != 0,
		},
	}
	last = b6&0x01 != 0
	return addr, last, nil
}
