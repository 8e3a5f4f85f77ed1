package ax25

// Frame assembly/disassembly: addresses + control + PID + info + FCS.
// Grounded on the teacher's ax25_pad.go (ax25_pack / address walking) and
// hdlc_rec2.go's frame acceptance, adapted to operate on plain byte slices
// instead of the teacher's opaque packet_t handle.

import (
	"fmt"

	"github.com/kb9vht/afsk25/internal/modemerr"
)

const (
	controlUI byte = 0x03
	pidNoL3   byte = 0xF0
)

// minFrameLen is 2 addresses + control + PID + FCS, with no info field.
const minFrameLen = 2*AddrLen + 1 + 1 + 2

// EncodeFrame builds the AX.25 UI frame octet sequence for p:
// [to|from|path...][control][pid][info][CRC_lo][CRC_hi].
func EncodeFrame(p Packet) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, minFrameLen+len(p.Path)*AddrLen+len(p.Data))

	toWire := p.To.encode(false)
	buf = append(buf, toWire[:]...)

	fromWire := p.From.encode(len(p.Path) == 0)
	buf = append(buf, fromWire[:]...)

	for i, addr := range p.Path {
		last := i == len(p.Path)-1
		wire := addr.encode(last)
		buf = append(buf, wire[:]...)
	}

	buf = append(buf, controlUI, pidNoL3)
	buf = append(buf, p.Data...)
	buf = appendCRC(buf)

	return buf, nil
}

// isControlByte reports whether b looks like an S- or U-frame control byte
// (b&0x03 is 0x01 or 0x03), used by the path walk to recognize the end of
// the address list when no address carries the Last bit (permissive
// decoding of foreign/malformed frames, per §1's non-goals note).
func isControlByte(b byte) bool {
	return b&0x03 == 0x01 || b&0x03 == 0x03
}

// decodeAddressList parses the destination, source, and path addresses
// starting at offset 0 in buf, returning them plus the offset of the first
// byte following the address list (where control/PID begins).
func decodeAddressList(buf []byte) (to, from Address, path []Address, next int, err error) {
	if len(buf) < 2*AddrLen {
		return Address{}, Address{}, nil, 0, modemerr.NewFrameError(modemerr.ErrFrameTooShort, "fewer than 2 addresses")
	}

	to, _, err = decodeAddress(buf[0:AddrLen])
	if err != nil {
		return Address{}, Address{}, nil, 0, err
	}
	to.Mark = false // C-bit reinterpretation: destination H-bit is not a repeated mark.

	from, fromLast, err := decodeAddress(buf[AddrLen : 2*AddrLen])
	if err != nil {
		return Address{}, Address{}, nil, 0, err
	}
	from.Mark = false // same reinterpretation for the source address.

	offset := 2 * AddrLen
	if fromLast {
		return to, from, nil, offset, nil
	}

	for {
		if offset+AddrLen > len(buf) {
			return Address{}, Address{}, nil, 0, modemerr.NewFrameError(modemerr.ErrFrameTerminatorMissing, "path ran past end of buffer")
		}

		addr, last, err := decodeAddress(buf[offset : offset+AddrLen])
		if err != nil {
			return Address{}, Address{}, nil, 0, err
		}
		path = append(path, addr)
		offset += AddrLen

		if last {
			return to, from, path, offset, nil
		}

		// Permissive: if what follows doesn't look like another address at
		// all but does look like a control byte, accept this as the end of
		// the path even though no address set its Last bit.
		if offset < len(buf) && isControlByte(buf[offset]) {
			return to, from, path, offset, nil
		}

		if len(path) > MaxPathLen {
			return Address{}, Address{}, nil, 0, modemerr.NewFrameError(modemerr.ErrAddressesMisaligned, "path exceeds 8 digipeater addresses")
		}
	}
}

// DecodedFrame is the result of a successful frame parse, including the
// received CRC for callers that want to inspect it (e.g. §8 scenario 1).
type DecodedFrame struct {
	Packet     Packet
	ReceivedCRC uint16
}

// TryDecodeFrame parses raw, a complete AX.25 frame including its 2-byte
// FCS trailer, verifying the CRC first.
func TryDecodeFrame(raw []byte) (DecodedFrame, error) {
	if len(raw) < minFrameLen {
		return DecodedFrame{}, modemerr.NewFrameError(modemerr.ErrFrameTooShort, fmt.Sprintf("frame is %d bytes, need at least %d", len(raw), minFrameLen))
	}

	body := raw[:len(raw)-2]
	receivedCRC := uint16(raw[len(raw)-2]) | uint16(raw[len(raw)-1])<<8
	if computed := CRC(body); computed != receivedCRC {
		return DecodedFrame{}, modemerr.NewFrameError(modemerr.ErrCRCMismatch, fmt.Sprintf("got %#04x, want %#04x", receivedCRC, computed))
	}

	pkt, err := decodeFrameBody(body)
	if err != nil {
		return DecodedFrame{}, err
	}
	return DecodedFrame{Packet: pkt, ReceivedCRC: receivedCRC}, nil
}

// TryDecodeFrameNoFCS parses raw as a frame whose FCS has already been
// stripped by an outer layer (KISS), performing no CRC check.
func TryDecodeFrameNoFCS(raw []byte) (Packet, error) {
	return decodeFrameBody(raw)
}

func decodeFrameBody(body []byte) (Packet, error) {
	to, from, path, offset, err := decodeAddressList(body)
	if err != nil {
		return Packet{}, err
	}

	if offset+2 > len(body) {
		return Packet{}, modemerr.NewFrameError(modemerr.ErrControlFieldMissing, "no room for control/PID bytes")
	}
	offset += 2 // control, PID

	if offset > len(body) {
		return Packet{}, modemerr.NewFrameError(modemerr.ErrControlFieldMissing, "control/PID arithmetic underflow")
	}

	info := body[offset:]

	return Packet{To: to, From: from, Path: path, Data: append([]byte(nil), info...)}, nil
}
