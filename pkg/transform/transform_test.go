package transform

import (
	"bytes"
	"testing"

	"github.com/mqxym/cryptit-go/internal/secret"
	"github.com/mqxym/cryptit-go/pkg/engine"
	"github.com/mqxym/cryptit-go/pkg/frame"
	"github.com/mqxym/cryptit-go/pkg/kdf"
	"github.com/mqxym/cryptit-go/pkg/provider"
	"github.com/mqxym/cryptit-go/pkg/registry"
)

func newTestEngine(t *testing.T, chunkSize int) *engine.Engine {
	t.Helper()
	reg := registry.NewDefault()
	m := engine.NewManager(reg, engine.ManagerConfig{})
	prov := provider.NewDefault("t")

	e, err := m.GetEngine(prov, 0)
	if err != nil {
		t.Fatalf("GetEngine: %v", err)
	}
	if chunkSize > 0 {
		e.ChunkSize = chunkSize
	}
	if err := m.DeriveKey(e, secret.FromString("pw"), make([]byte, 16), kdf.Low); err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	e.Cipher.SetAAD([]byte("hdr"))
	return e
}

func TestEncryptDecryptRoundTripAcrossChunkBoundaries(t *testing.T) {
	e := newTestEngine(t, 16)
	plain := bytes.Repeat([]byte("0123456789abcdef"), 5) // 80 bytes, 5 full chunks of 16
	plain = append(plain, []byte("tail")...)              // plus a trailing partial chunk

	var ciphertext bytes.Buffer
	enc := NewEncrypt(e, &ciphertext)

	// Feed in uneven pieces to exercise buffering across Write calls.
	if _, err := enc.Write(plain[:10]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := enc.Write(plain[10:50]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := enc.Write(plain[50:]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// Decrypt with a freshly derived engine of the same key material. A
	// 16-byte block seals to a 44-byte frame (12 IV + 16 + 16 tag), above
	// MaxLen(16) = 32, so the reader uses chunk size 32 (MaxLen 64).
	e2 := newTestEngine(t, 32)
	var out bytes.Buffer
	dec := NewDecrypt(e2, &out)
	if _, err := dec.Write(ciphertext.Bytes()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := dec.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if !bytes.Equal(out.Bytes(), plain) {
		t.Fatalf("round-trip mismatch: got %q, want %q", out.Bytes(), plain)
	}
}

func TestEncryptEmptyInputFlushesNothing(t *testing.T) {
	e := newTestEngine(t, 16)
	var ciphertext bytes.Buffer
	enc := NewEncrypt(e, &ciphertext)
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if ciphertext.Len() != 0 {
		t.Fatalf("expected no frames for empty input, got %d bytes", ciphertext.Len())
	}
}

func TestEncryptRejectsOversizedWrite(t *testing.T) {
	e := newTestEngine(t, 16)
	var out bytes.Buffer
	enc := NewEncrypt(e, &out)

	big := make([]byte, maxInputChunk(e.ChunkSize)+1)
	if _, err := enc.Write(big); err != ErrChunkTooLarge {
		t.Fatalf("err = %v, want ErrChunkTooLarge", err)
	}
}

func TestDecryptRejectsFrameBoundsViolation(t *testing.T) {
	e := newTestEngine(t, 16)
	var out bytes.Buffer
	dec := NewDecrypt(e, &out)

	// Declared length far beyond MaxLen(chunkSize).
	var bad bytes.Buffer
	bad.Write(frame.EncodeLen(10_000_000))
	bad.Write(make([]byte, 40))

	if _, err := dec.Write(bad.Bytes()); err != ErrFrameBounds {
		t.Fatalf("err = %v, want ErrFrameBounds", err)
	}
}

func TestDecryptFlushDetectsTruncation(t *testing.T) {
	e := newTestEngine(t, 16)
	var ciphertext bytes.Buffer
	enc := NewEncrypt(e, &ciphertext)
	if _, err := enc.Write([]byte("hello world, this is more than one chunk")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	truncated := ciphertext.Bytes()[:ciphertext.Len()-3]

	// Reader chunk size 32 so the 44-byte frames fit within MaxLen.
	e2 := newTestEngine(t, 32)
	var out bytes.Buffer
	dec := NewDecrypt(e2, &out)
	if _, err := dec.Write(truncated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := dec.Flush(); err != ErrTruncated {
		t.Fatalf("Flush err = %v, want ErrTruncated", err)
	}
}

func TestFlushZeroizesEngineKey(t *testing.T) {
	e := newTestEngine(t, 16)
	var ciphertext bytes.Buffer
	enc := NewEncrypt(e, &ciphertext)
	if _, err := enc.Write([]byte("data")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, err := e.Cipher.EncryptChunk([]byte("x")); err == nil {
		t.Fatalf("expected encryption to fail after Flush zeroized the key")
	}
}
