package transform

import (
	"io"

	"github.com/mqxym/cryptit-go/pkg/engine"
	"github.com/mqxym/cryptit-go/pkg/frame"
)

// Decrypt buffers incoming framed ciphertext, peeks each frame's declared
// length, validates it against the engine's cipher bounds, decrypts once a
// full frame is buffered, and writes the resulting plaintext to Out.
type Decrypt struct {
	Engine *engine.Engine
	Out    io.Writer

	buffer []byte
}

// NewDecrypt creates a Decrypt transform writing plaintext to out.
func NewDecrypt(e *engine.Engine, out io.Writer) *Decrypt {
	return &Decrypt{Engine: e, Out: out}
}

// Write accepts one chunk of framed ciphertext and decrypts as many
// complete frames as are now buffered. Errors (bounds violations,
// authentication failure) are returned directly rather than swallowed, so
// callers can abort the stream.
func (t *Decrypt) Write(p []byte) (int, error) {
	t.buffer = append(t.buffer, p...)

	for {
		if len(t.buffer) < frame.LenPrefixSize {
			break
		}

		declared, err := frame.DecodeLen(t.buffer, 0)
		if err != nil {
			break
		}

		minLen := frame.MinLen(t.Engine.Cipher.IVLength(), t.Engine.Cipher.TagLength())
		maxLen := frame.MaxLen(t.Engine.ChunkSize)
		if int(declared) < minLen || int(declared) > maxLen {
			return 0, ErrFrameBounds
		}

		total := frame.LenPrefixSize + int(declared)
		if len(t.buffer) < total {
			break
		}

		plain, err := t.Engine.Cipher.DecryptChunk(t.buffer[frame.LenPrefixSize:total])
		if err != nil {
			return 0, err
		}
		if _, err := t.Out.Write(plain); err != nil {
			return 0, err
		}

		rest := t.buffer[total:]
		t.buffer = append([]byte(nil), rest...)
	}

	return len(p), nil
}

// Flush runs one more decode pass (in case a final frame arrived entirely
// in the last Write), then fails if unconsumed bytes remain — a partial
// frame at end of stream means the ciphertext was truncated. The engine's
// key is always zeroed, success or failure.
func (t *Decrypt) Flush() error {
	defer t.Engine.ZeroKey()

	if _, err := t.Write(nil); err != nil {
		return err
	}
	if len(t.buffer) != 0 {
		return ErrTruncated
	}
	return nil
}
