// Package frame implements the big-endian length-prefix framing used for
// chunked (file/stream) ciphertext: each frame is
// LEN(u32 big-endian) || IV_or_NONCE || ciphertext || tag, where LEN counts
// only the bytes following the 4-byte prefix.
package frame

import (
	"encoding/binary"
	"errors"
)

// LenPrefixSize is the length of the frame's length prefix, in bytes.
const LenPrefixSize = 4

// MaxFrameBytes is the absolute ceiling on a frame's declared length,
// independent of chunk size (64 MiB).
const MaxFrameBytes = 64 * 1024 * 1024

// ErrShortBuffer is returned when DecodeLen is called with fewer than
// LenPrefixSize bytes remaining.
var ErrShortBuffer = errors.New("frame: fewer than 4 bytes remaining")

// EncodeLen renders n as a 4-byte big-endian length prefix.
func EncodeLen(n uint32) []byte {
	b := make([]byte, LenPrefixSize)
	binary.BigEndian.PutUint32(b, n)
	return b
}

// DecodeLen reads a 4-byte big-endian length prefix from buf starting at
// offset. It requires at least 4 bytes remaining from offset.
func DecodeLen(buf []byte, offset int) (uint32, error) {
	if offset < 0 || len(buf)-offset < LenPrefixSize {
		return 0, ErrShortBuffer
	}
	return binary.BigEndian.Uint32(buf[offset : offset+LenPrefixSize]), nil
}

// MaxLen returns the maximum permitted declared frame length for a given
// writer-configured chunk size: min(chunkSize*2, MaxFrameBytes).
func MaxLen(chunkSize int) int {
	doubled := chunkSize * 2
	if doubled > MaxFrameBytes || doubled <= 0 {
		return MaxFrameBytes
	}
	return doubled
}

// MinLen returns the minimum permitted declared frame length for a cipher
// with the given IV and tag lengths.
func MinLen(ivLength, tagLength int) int {
	return ivLength + tagLength
}
