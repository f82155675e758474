// Package transform implements the push-style chunked encrypt/decrypt
// processors that sit between the façade and a keyed engine: buffering
// partial chunks, framing fixed-size blocks, and enforcing the bounds that
// keep a streaming operation at constant memory (spec.md §4.9).
package transform

import (
	"io"

	"github.com/mqxym/cryptit-go/pkg/engine"
	"github.com/mqxym/cryptit-go/pkg/frame"
)

// maxInputChunk is the hard ceiling spec.md §4.9 places on a single
// EncryptTransform.Write call: min(4*chunkSize, 64 MiB).
func maxInputChunk(chunkSize int) int {
	quad := chunkSize * 4
	if quad <= 0 || quad > frame.MaxFrameBytes {
		return frame.MaxFrameBytes
	}
	return quad
}

// Encrypt buffers incoming plaintext, slices it into engine.ChunkSize
// blocks, encrypts each with the engine's cipher, and writes
// LEN(u32) || ciphertext frames to Out. Call Flush exactly once when the
// input is exhausted.
type Encrypt struct {
	Engine *engine.Engine
	Out    io.Writer

	buffer []byte
}

// NewEncrypt creates an Encrypt transform writing framed ciphertext to out.
func NewEncrypt(e *engine.Engine, out io.Writer) *Encrypt {
	return &Encrypt{Engine: e, Out: out}
}

// Write accepts one chunk of plaintext. It rejects input larger than
// min(4*chunkSize, 64 MiB) outright, then encrypts and emits as many full
// chunkSize blocks as the buffered input allows.
func (t *Encrypt) Write(p []byte) (int, error) {
	if len(p) > maxInputChunk(t.Engine.ChunkSize) {
		return 0, ErrChunkTooLarge
	}

	t.buffer = append(t.buffer, p...)

	for len(t.buffer) >= t.Engine.ChunkSize {
		block := t.buffer[:t.Engine.ChunkSize]

		ct, err := t.Engine.Cipher.EncryptChunk(block)
		if err != nil {
			return 0, err
		}
		if err := t.emit(ct); err != nil {
			return 0, err
		}

		rest := t.buffer[t.Engine.ChunkSize:]
		t.buffer = append([]byte(nil), rest...)
	}

	return len(p), nil
}

func (t *Encrypt) emit(ciphertext []byte) error {
	if _, err := t.Out.Write(frame.EncodeLen(uint32(len(ciphertext)))); err != nil {
		return err
	}
	_, err := t.Out.Write(ciphertext)
	return err
}

// Flush encrypts and emits any partial final block, then zeroes the
// engine's key. Call exactly once, after the last Write.
func (t *Encrypt) Flush() error {
	defer t.Engine.ZeroKey()

	if len(t.buffer) == 0 {
		return nil
	}

	ct, err := t.Engine.Cipher.EncryptChunk(t.buffer)
	t.buffer = nil
	if err != nil {
		return err
	}
	return t.emit(ct)
}
