// Package bytesource provides a random-access view over a payload that may
// live as in-memory bytes, a lazily-decoded base64 string, or an open file
// handle, so the façade can peek a header or stream a body without caring
// which backing store it is reading from.
package bytesource

import (
	"encoding/base64"
	"errors"
	"io"
	"os"
)

// ErrOutOfRange is returned when a read extends past the end of the source.
var ErrOutOfRange = errors.New("bytesource: read out of range")

// Source is a random-access, re-readable view over a byte payload.
type Source interface {
	// Len returns the total size of the payload.
	Len() (int64, error)

	// ReadAt reads len(p) bytes starting at off, short-reading only at EOF
	// (io.ReaderAt semantics).
	ReadAt(p []byte, off int64) (int, error)

	// Reader returns a fresh sequential reader from the start of the
	// payload. Each call yields an independent reader.
	Reader() (io.Reader, error)
}

// FromBytes wraps an in-memory byte slice.
func FromBytes(b []byte) Source {
	return &bytesSource{data: b}
}

type bytesSource struct {
	data []byte
}

func (s *bytesSource) Len() (int64, error) { return int64(len(s.data)), nil }

func (s *bytesSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(s.data)) {
		return 0, ErrOutOfRange
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *bytesSource) Reader() (io.Reader, error) {
	return io.NewSectionReader(&byteReaderAt{s.data}, 0, int64(len(s.data))), nil
}

type byteReaderAt struct{ data []byte }

func (b *byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b.data)) {
		return 0, ErrOutOfRange
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// FromBase64 wraps a base64-encoded string. The string is decoded lazily
// on first access and the decoded bytes cached for subsequent calls.
func FromBase64(encoded string) Source {
	return &base64Source{encoded: encoded}
}

type base64Source struct {
	encoded string
	decoded []byte
	done    bool
}

func (s *base64Source) ensure() error {
	if s.done {
		return nil
	}
	dec, err := base64.StdEncoding.DecodeString(s.encoded)
	if err != nil {
		return err
	}
	s.decoded = dec
	s.done = true
	return nil
}

func (s *base64Source) Len() (int64, error) {
	if err := s.ensure(); err != nil {
		return 0, err
	}
	return int64(len(s.decoded)), nil
}

func (s *base64Source) ReadAt(p []byte, off int64) (int, error) {
	if err := s.ensure(); err != nil {
		return 0, err
	}
	return (&bytesSource{data: s.decoded}).ReadAt(p, off)
}

func (s *base64Source) Reader() (io.Reader, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	return (&bytesSource{data: s.decoded}).Reader()
}

// FromFile wraps an open file handle. The caller retains ownership of f
// (this Source never closes it).
func FromFile(f *os.File) Source {
	return &fileSource{f: f}
}

type fileSource struct {
	f *os.File
}

func (s *fileSource) Len() (int64, error) {
	st, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

func (s *fileSource) Reader() (io.Reader, error) {
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	return io.NewSectionReader(s.f, 0, n), nil
}
