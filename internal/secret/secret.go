// Package secret provides zeroizing byte containers for passphrases and
// plaintext buffers that flow through the encryption façade.
package secret

import "errors"

// ErrCleared is returned by any access on a Bytes value after Clear has run.
var ErrCleared = errors.New("secret: value already cleared")

// Bytes owns a byte buffer that must be wiped once consumed. It has no
// finalizer: callers are responsible for calling Clear on every exit path
// (success, error, or panic-recovery), mirroring SecureContext.ZeroizeKeys
// in the teacher's session package.
type Bytes struct {
	buf     []byte
	cleared bool
}

// New wraps b. Ownership of b transfers to the returned Bytes: callers must
// not retain or mutate b afterwards.
func New(b []byte) *Bytes {
	return &Bytes{buf: b}
}

// FromString copies s into an owned buffer and returns it. The caller's
// string is not (cannot be) zeroed; prefer passing raw bytes where possible.
func FromString(s string) *Bytes {
	b := make([]byte, len(s))
	copy(b, s)
	return &Bytes{buf: b}
}

// Bytes returns the live view of the wrapped buffer. It panics-free errors
// via (nil, ErrCleared) once Clear has been called.
func (s *Bytes) Bytes() ([]byte, error) {
	if s == nil || s.cleared {
		return nil, ErrCleared
	}
	return s.buf, nil
}

// Len returns the buffer length, or 0 once cleared.
func (s *Bytes) Len() int {
	if s == nil || s.cleared {
		return 0
	}
	return len(s.buf)
}

// Clear overwrites the buffer with zeros and marks the value unusable. Safe
// to call more than once.
func (s *Bytes) Clear() {
	if s == nil || s.cleared {
		return
	}
	Wipe(s.buf)
	s.buf = nil
	s.cleared = true
}

// Wipe overwrites b with zeros in place. No-op for nil/empty input.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
