package transform

import "errors"

var (
	// ErrChunkTooLarge is returned when a single Write call exceeds
	// min(4*chunkSize, 64 MiB).
	ErrChunkTooLarge = errors.New("transform: input chunk exceeds maximum size")

	// ErrFrameBounds is returned when a declared frame length falls
	// outside [IVLength+TagLength, min(chunkSize*2, 64 MiB)].
	ErrFrameBounds = errors.New("transform: declared frame length out of bounds")

	// ErrTruncated is returned on flush when buffered bytes remain that do
	// not form a complete frame.
	ErrTruncated = errors.New("transform: truncated ciphertext")
)
