package fx25

import (
	"encoding/binary"

	"github.com/kb9vht/afsk25/internal/modemerr"
)

// Mode is one of the eleven fixed (tag, total, data, check) FX.25 transmit
// shapes from §4.7, smallest total first.
type Mode struct {
	Tag   uint64
	Total int
	Data  int
	Check int
}

// Modes is the fixed mode table, grounded on the teacher's `tags` array in
// fx25_init.go, restricted to the eleven assigned (non-reserved) entries
// and reordered smallest-total-first so PickMode's linear scan is also the
// preference order.
var Modes = []Mode{
	{0x8F056EB4369660EE, 48, 32, 16},
	{0xDBF869BD2DBB1776, 64, 32, 32},
	{0xC7DC0508F3D9B09E, 80, 64, 16},
	{0x1EB7B9CDBC09C00E, 96, 64, 32},
	{0x4A4ABEC4A724B796, 128, 64, 64},
	{0x26FF60A600CC8FDE, 144, 128, 16},
	{0xFF94DC634F1CFF4E, 160, 128, 32},
	{0xAB69DB6A543188D6, 192, 128, 64},
	{0x3ADB0C13DEAE2836, 255, 191, 64},
	{0x6E260B1AC5835FAE, 255, 223, 32},
	{0xB74DB7DF8A532F3E, 255, 239, 16},
}

// rsCache memoizes the reedSolomon codec per distinct parity length; only
// 16, 32, and 64 occur across Modes, matching the teacher's FX25_NTAB==3.
var rsCache = map[uint]*reedSolomon{}

func rsFor(nroots int) *reedSolomon {
	if rs, ok := rsCache[uint(nroots)]; ok {
		return rs
	}
	rs := newReedSolomon(uint(nroots))
	rsCache[uint(nroots)] = rs
	return rs
}

// PickMode selects the smallest mode whose data capacity is at least
// blockLen and whose check length is at least minCheck.
func PickMode(blockLen, minCheck int) (Mode, bool) {
	for _, m := range Modes {
		if m.Data >= blockLen && m.Check >= minCheck {
			return m, true
		}
	}
	return Mode{}, false
}

// Encode wraps hdlcBlock (a complete, bit-stuffed, flag-delimited AX.25
// block) in the smallest FX.25 mode that fits, with at least minCheck
// parity bytes. It returns modemerr.ErrUnsupportedFormat if no mode fits.
func Encode(hdlcBlock []byte, minCheck int) ([]byte, error) {
	mode, ok := PickMode(len(hdlcBlock), minCheck)
	if !ok {
		return nil, modemerr.NewFrameError(modemerr.ErrUnsupportedFormat, "no FX.25 mode fits this block/check-length combination")
	}

	dataRegion := make([]byte, mode.Data)
	n := copy(dataRegion, hdlcBlock)
	for i := n; i < mode.Data; i++ {
		dataRegion[i] = 0x7E
	}

	rs := rsFor(mode.Check)
	message := make([]byte, 255-mode.Check)
	copy(message, dataRegion) // remaining bytes stay zero: the "implicit zeros"
	parity := rs.encode(message)

	out := make([]byte, 0, 8+mode.Data+mode.Check)
	var tagBuf [8]byte
	binary.LittleEndian.PutUint64(tagBuf[:], mode.Tag)
	out = append(out, tagBuf[:]...)
	out = append(out, dataRegion...)
	out = append(out, parity...)

	return out, nil
}
