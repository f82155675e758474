package cryptit

import (
	"io"

	"github.com/mqxym/cryptit-go/internal/secret"
	"github.com/mqxym/cryptit-go/pkg/header"
	"github.com/mqxym/cryptit-go/pkg/transform"
)

// maxHeaderScan bounds how many undecoded leading bytes a DecryptionStream
// will buffer while seeking a header before giving up.
const maxHeaderScan = 64 * 1024

// EncryptionStream is the result of CreateEncryptionStream: the caller
// writes plaintext to Writable and reads framed ciphertext from Readable.
// Header is returned separately — the caller MUST prepend it to whatever
// Readable produces before the result is a valid container.
type EncryptionStream struct {
	Header   []byte
	Writable io.WriteCloser
	Readable io.Reader
}

// CreateEncryptionStream derives a key and returns a pipe: plaintext
// written to Writable is chunked, encrypted and framed, and the resulting
// ciphertext can be read from Readable concurrently (io.Pipe semantics —
// a Write blocks until a reader drains it, so Writable and Readable are
// normally driven from separate goroutines).
func (f *Facade) CreateEncryptionStream(pass *secret.Bytes, opts ...EncryptOption) (*EncryptionStream, error) {
	o := newEncryptOptions(opts...)

	e, err := f.prepareEngine(o)
	if err != nil {
		return nil, err
	}

	salt, err := f.saltAndDerive(e, pass, o)
	if err != nil {
		return nil, err
	}

	hdr, err := header.Encode(o.Scheme, o.Difficulty, o.SaltStrength, salt, e.Cipher)
	if err != nil {
		return nil, wrapHeader(err)
	}

	pr, pw := io.Pipe()
	tr := transform.NewEncrypt(e, pw)

	return &EncryptionStream{
		Header:   hdr,
		Writable: &encryptWritable{tr: tr, pw: pw},
		Readable: pr,
	}, nil
}

type encryptWritable struct {
	tr *transform.Encrypt
	pw *io.PipeWriter
}

func (w *encryptWritable) Write(p []byte) (int, error) {
	n, err := w.tr.Write(p)
	if err != nil {
		wrapped := wrapEncryption(err)
		w.pw.CloseWithError(wrapped)
		return n, wrapped
	}
	return n, nil
}

func (w *encryptWritable) Close() error {
	if err := w.tr.Flush(); err != nil {
		wrapped := wrapEncryption(err)
		w.pw.CloseWithError(wrapped)
		return wrapped
	}
	return w.pw.Close()
}

// decryptStreamState is the Phase enum of spec.md §4.10's streaming
// header auto-detect state machine.
type decryptStreamState int

const (
	seekingHeader decryptStreamState = iota
	forwarding
)

// DecryptionStream is the result of CreateDecryptionStream: raw bytes
// (header followed by framed ciphertext) are pushed through Write, and
// recovered plaintext can be read from Readable. The header is detected
// automatically from the first bytes written — see the Write/Close
// implementation for the SeekingHeader/Forwarding transition.
type DecryptionStream struct {
	Readable io.Reader

	facade *Facade
	pass   *secret.Bytes
	pw     *io.PipeWriter

	state decryptStreamState
	buf   []byte
	dtr   *transform.Decrypt
}

// CreateDecryptionStream returns a DecryptionStream. pass is held until
// enough bytes have arrived to decode a header and derive a key; it is
// always cleared once that happens (success or failure) or the stream is
// closed while still seeking.
func (f *Facade) CreateDecryptionStream(pass *secret.Bytes) *DecryptionStream {
	pr, pw := io.Pipe()
	return &DecryptionStream{
		Readable: pr,
		facade:   f,
		pass:     pass,
		pw:       pw,
		state:    seekingHeader,
	}
}

// Write accepts one chunk of raw input. While seeking, bytes accumulate in
// an internal buffer (capped at 64 KiB) until enough have arrived to
// decode a header; at that point the engine is resolved, the key derived,
// and the transform forwards any bytes past the header immediately. Once
// forwarding, every call is written straight into the underlying Decrypt
// transform.
func (s *DecryptionStream) Write(p []byte) (int, error) {
	if s.state == forwarding {
		if _, err := s.dtr.Write(p); err != nil {
			wrapped := wrapDecrypt(err)
			s.pw.CloseWithError(wrapped)
			return 0, wrapped
		}
		return len(p), nil
	}

	s.buf = append(s.buf, p...)
	if len(s.buf) > maxHeaderScan {
		s.pw.CloseWithError(errHeaderScanOverflow)
		return 0, errHeaderScanOverflow
	}
	if len(s.buf) < 2 {
		return len(p), nil
	}

	hdrLen, err := header.PeekHeaderLen(s.buf, s.facade.registry)
	if err != nil {
		wrapped := wrapHeader(err)
		s.pass.Clear()
		s.pw.CloseWithError(wrapped)
		return 0, wrapped
	}
	if len(s.buf) < hdrLen {
		return len(p), nil
	}

	h, err := header.Decode(s.buf, s.facade.registry, nil)
	if err != nil {
		wrapped := wrapHeader(err)
		s.pass.Clear()
		s.pw.CloseWithError(wrapped)
		return 0, wrapped
	}

	e, err := s.facade.manager.GetEngine(s.facade.provider, h.Scheme)
	if err != nil {
		wrapped := wrapScheme(err)
		s.pass.Clear()
		s.pw.CloseWithError(wrapped)
		return 0, wrapped
	}

	if err := s.facade.manager.DeriveKey(e, s.pass, h.Salt, h.Difficulty); err != nil {
		wrapped := wrapKeyDerivation(err)
		s.pw.CloseWithError(wrapped)
		return 0, wrapped
	}

	if _, err := header.Decode(s.buf, s.facade.registry, e.Cipher); err != nil {
		wrapped := wrapHeader(err)
		s.pw.CloseWithError(wrapped)
		return 0, wrapped
	}

	rest := s.buf[h.HeaderLen:]
	s.buf = nil
	s.dtr = transform.NewDecrypt(e, s.pw)
	s.state = forwarding

	if len(rest) > 0 {
		if _, err := s.dtr.Write(rest); err != nil {
			wrapped := wrapDecrypt(err)
			s.pw.CloseWithError(wrapped)
			return 0, wrapped
		}
	}
	return len(p), nil
}

// Close signals end of input. If no header was ever found, it fails with
// ErrInvalidHeader; otherwise it flushes the downstream Decrypt transform
// (which zeroes the engine's key) and closes Readable.
func (s *DecryptionStream) Close() error {
	if s.state != forwarding {
		s.pass.Clear()
		s.pw.CloseWithError(errHeaderScanOverflow)
		return errHeaderScanOverflow
	}
	if err := s.dtr.Flush(); err != nil {
		wrapped := wrapDecrypt(err)
		s.pw.CloseWithError(wrapped)
		return wrapped
	}
	return s.pw.Close()
}
