// Package il2p implements the IL2P trailing-CRC layer: a CRC-16-CCITT over
// the decoded AX.25 frame bytes, itself protected by a (7,4) Hamming code
// so single-bit errors surviving the outer Reed-Solomon FEC are still
// caught (and, within a nibble, correctable).
//
// Only this CRC+ECC layer is implemented, not full IL2P header/payload RS
// framing; see this module's Non-goals.
package il2p

import "github.com/kb9vht/afsk25/internal/ax25"

// CRCEncodedSize is the wire size of a Hamming-protected CRC trailer: four
// bytes, each holding one (7,4)-encoded nibble.
const CRCEncodedSize = 4

// hammingEncode maps a 4-bit data nibble to its 7-bit Hamming(7,4) codeword.
// Ported verbatim from the teacher's il2p_crc.go (IL2P spec v0.6 table).
var hammingEncode = [16]byte{
	0x00, 0x71, 0x62, 0x13, 0x54, 0x25, 0x36, 0x47,
	0x38, 0x49, 0x5a, 0x2b, 0x6c, 0x1d, 0x0e, 0x7f,
}

// hammingDecode maps a received 7-bit codeword back to its 4-bit data
// nibble, correcting any single-bit error.
var hammingDecode = [128]byte{
	0x00, 0x00, 0x00, 0x03, 0x00, 0x05, 0x0e, 0x07,
	0x00, 0x09, 0x0e, 0x0b, 0x0e, 0x0d, 0x0e, 0x0e,
	0x00, 0x03, 0x03, 0x03, 0x04, 0x0d, 0x06, 0x03,
	0x08, 0x0d, 0x0a, 0x03, 0x0d, 0x0d, 0x0e, 0x0d,
	0x00, 0x05, 0x02, 0x0b, 0x05, 0x05, 0x06, 0x05,
	0x08, 0x0b, 0x0b, 0x0b, 0x0c, 0x05, 0x0e, 0x0b,
	0x08, 0x01, 0x06, 0x03, 0x06, 0x05, 0x06, 0x06,
	0x08, 0x08, 0x08, 0x0b, 0x08, 0x0d, 0x06, 0x0f,
	0x00, 0x09, 0x02, 0x07, 0x04, 0x07, 0x07, 0x07,
	0x09, 0x09, 0x0a, 0x09, 0x0c, 0x09, 0x0e, 0x07,
	0x04, 0x01, 0x0a, 0x03, 0x04, 0x04, 0x04, 0x07,
	0x0a, 0x09, 0x0a, 0x0a, 0x04, 0x0d, 0x0a, 0x0f,
	0x02, 0x01, 0x02, 0x02, 0x0c, 0x05, 0x02, 0x07,
	0x0c, 0x09, 0x02, 0x0b, 0x0c, 0x0c, 0x0c, 0x0f,
	0x01, 0x01, 0x02, 0x01, 0x04, 0x01, 0x06, 0x0f,
	0x08, 0x01, 0x0a, 0x0f, 0x0c, 0x0f, 0x0f, 0x0f,
}

// CRC computes the CRC-16-CCITT over frame data (without the AX.25 FCS),
// reusing the same polynomial/init/final-XOR as the AX.25 FCS itself.
func CRC(frameData []byte) uint16 {
	return ax25.CRC(frameData)
}

// EncodeCRC Hamming-encodes a 16-bit CRC into 4 bytes, high nibble first.
func EncodeCRC(crc uint16) [CRCEncodedSize]byte {
	var encoded [CRCEncodedSize]byte
	encoded[0] = hammingEncode[(crc>>12)&0x0f]
	encoded[1] = hammingEncode[(crc>>8)&0x0f]
	encoded[2] = hammingEncode[(crc>>4)&0x0f]
	encoded[3] = hammingEncode[crc&0x0f]
	return encoded
}

// DecodeCRC decodes 4 Hamming-encoded bytes back into a 16-bit CRC,
// correcting any single-bit error in each nibble's codeword.
func DecodeCRC(encoded []byte) uint16 {
	n0 := uint16(hammingDecode[encoded[0]&0x7f])
	n1 := uint16(hammingDecode[encoded[1]&0x7f])
	n2 := uint16(hammingDecode[encoded[2]&0x7f])
	n3 := uint16(hammingDecode[encoded[3]&0x7f])
	return (n0 << 12) | (n1 << 8) | (n2 << 4) | n3
}

// Check validates a received Hamming-encoded CRC against decoded frame
// data, reporting whether they match.
func Check(frameData []byte, encodedCRC []byte) bool {
	return CRC(frameData) == DecodeCRC(encodedCRC)
}
