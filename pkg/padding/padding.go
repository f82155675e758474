// Package padding implements the length-hiding padding trailer appended to
// plaintext before AEAD sealing: a run of random bytes followed by a fixed
// 8-byte authenticated-looking footer (magic, version, length, CRC8). The
// footer is not itself cryptographically authenticated — the surrounding
// AEAD tag does that job; the CRC here only cuts down accidental false
// positives when probing legacy, unpadded ciphertexts.
package padding

import (
	"crypto/subtle"
	"errors"
)

// Magic40 is the 5-byte constant identifying a padding trailer.
var Magic40 = [5]byte{0xC4, 0xE7, 0x9B, 0xAD, 0xF2}

// Version is the padding trailer format version.
const Version byte = 0x29

// crc8Poly is the CRC-8 polynomial (x^8 + x^2 + x + 1) used over the
// trailer's fixed fields, MSB-first, no reflection, zero init.
const crc8Poly byte = 0x07

// footerSize is the fixed portion of the trailer: Magic40(5) + VER(1) + LEN(1) + CRC8(1).
const footerSize = 8

// MinTrailer is the minimum total trailer length (RND section may be empty).
const MinTrailer = footerSize

// ErrMalformedPadding is returned for caller misuse: an out-of-range align
// or a random source that did not return the requested number of bytes.
var ErrMalformedPadding = errors.New("padding: malformed padding request")

// RandomSource supplies cryptographically strong random bytes, matching the
// surface pkg/provider.Provider already exposes (RandomBytes).
type RandomSource interface {
	RandomBytes(n int) ([]byte, error)
}

// Pad appends a length-hiding trailer to plain so that
// (len(plain)+len(trailer)) % align == 0, with a trailer length k in
// [8, 8+align-1]. align must be in [1, 248] (so that 8+align-1 <= 255, the
// trailer's own LEN field being a single byte). When plain is already
// aligned, a full extra block (k == align, rounded up into the valid
// range) is still added — padding is never skipped.
func Pad(plain []byte, rng RandomSource, align int) ([]byte, error) {
	if align < 1 || align > 248 {
		return nil, ErrMalformedPadding
	}

	k := trailerLength(len(plain), align)

	rnd, err := rng.RandomBytes(k - footerSize)
	if err != nil {
		return nil, ErrMalformedPadding
	}
	if len(rnd) != k-footerSize {
		return nil, ErrMalformedPadding
	}

	out := make([]byte, 0, len(plain)+k)
	out = append(out, plain...)
	out = append(out, rnd...)
	out = append(out, Magic40[:]...)
	out = append(out, Version)
	out = append(out, byte(k))
	footer := out[len(out)-(footerSize-1):]
	out = append(out, crc8(footer))

	return out, nil
}

// trailerLength returns the unique k in [8, 8+align-1] such that
// (plainLen+k) % align == 0.
func trailerLength(plainLen, align int) int {
	target := (align - (plainLen % align)) % align
	base := footerSize % align
	diff := ((target - base) % align + align) % align
	return footerSize + diff
}

// TryUnpad attempts to strip a padding trailer from padded. It never
// returns an error: if the Magic40/VER/CRC8 fields do not validate, or the
// embedded length is out of range, it reports used=false and returns the
// input unchanged, so legacy unpadded ciphertexts pass through untouched.
func TryUnpad(padded []byte) (used bool, plain []byte) {
	n := len(padded)
	if n < footerSize {
		return false, padded
	}

	magic := padded[n-footerSize : n-3]
	ver := padded[n-3]
	lenByte := padded[n-2]
	crc := padded[n-1]

	wantCRC := crc8(padded[n-footerSize : n-1])

	magicOK := subtle.ConstantTimeCompare(magic, Magic40[:]) == 1
	verOK := subtle.ConstantTimeCompare([]byte{ver}, []byte{Version}) == 1
	crcOK := subtle.ConstantTimeCompare([]byte{crc}, []byte{wantCRC}) == 1
	lengthOK := int(lenByte) >= footerSize && int(lenByte) <= n

	if magicOK && verOK && crcOK && lengthOK {
		return true, padded[:n-int(lenByte)]
	}
	return false, padded
}

// crc8 computes CRC-8 (poly 0x07, MSB-first, zero init, no reflect) over data.
func crc8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ crc8Poly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
