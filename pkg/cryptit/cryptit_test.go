package cryptit

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/mqxym/cryptit-go/internal/secret"
	"github.com/mqxym/cryptit-go/pkg/kdf"
)

// testOpts pins kdf.Low to keep Argon2id costs low so the test suite runs fast.
func testOpts(extra ...EncryptOption) []EncryptOption {
	return append([]EncryptOption{WithDifficulty(kdf.Low)}, extra...)
}

func TestEncryptDecryptTextRoundTrip(t *testing.T) {
	f := New(Config{})
	plain := []byte("the quick brown fox jumps over the lazy dog")

	ct, err := f.EncryptText(append([]byte(nil), plain...), secret.FromString("correct horse"), testOpts()...)
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}

	got, err := f.DecryptText(ct, secret.FromString("correct horse"))
	if err != nil {
		t.Fatalf("DecryptText: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("got %q, want %q", got, plain)
	}
}

func TestEncryptDecryptTextEmptyPlaintext(t *testing.T) {
	f := New(Config{})
	ct, err := f.EncryptText(nil, secret.FromString("pw"), testOpts()...)
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	got, err := f.DecryptText(ct, secret.FromString("pw"))
	if err != nil {
		t.Fatalf("DecryptText: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestDecryptTextWrongPassphraseFails(t *testing.T) {
	f := New(Config{})
	ct, err := f.EncryptText([]byte("secret payload"), secret.FromString("right"), testOpts()...)
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	if _, err := f.DecryptText(ct, secret.FromString("wrong")); !errors.Is(err, ErrDecryption) {
		t.Fatalf("err = %v, want ErrDecryption", err)
	}
}

func TestDecryptTextTamperedCiphertextFails(t *testing.T) {
	f := New(Config{})
	ct, err := f.EncryptText([]byte("secret payload"), secret.FromString("pw"), testOpts()...)
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	tampered := append([]byte(nil), ct...)
	tampered[len(tampered)-1] ^= 0xFF

	if _, err := f.DecryptText(tampered, secret.FromString("pw")); !errors.Is(err, ErrDecryption) {
		t.Fatalf("err = %v, want ErrDecryption", err)
	}
}

func TestDecryptTextTamperedHeaderFails(t *testing.T) {
	f := New(Config{})
	ct, err := f.EncryptText([]byte("secret payload"), secret.FromString("pw"), testOpts()...)
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	tampered := append([]byte(nil), ct...)
	tampered[1] ^= 0x04 // flip the salt-strength bit

	if _, err := f.DecryptText(tampered, secret.FromString("pw")); err == nil {
		t.Fatalf("expected failure for tampered header (header-splicing attack)")
	}
}

func TestEncryptTextSchemeXChaCha(t *testing.T) {
	f := New(Config{})
	plain := []byte("scheme one payload")
	ct, err := f.EncryptText(append([]byte(nil), plain...), secret.FromString("pw"), testOpts(WithScheme(1))...)
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	got, err := f.DecryptText(ct, secret.FromString("pw"))
	if err != nil {
		t.Fatalf("DecryptText: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("got %q, want %q", got, plain)
	}
}

func TestEncryptTextWithPaddingRoundTrip(t *testing.T) {
	f := New(Config{})
	plain := []byte("short")
	ct, err := f.EncryptText(append([]byte(nil), plain...), secret.FromString("pw"),
		testOpts(WithPadding(16, 0))...) // Auto policy
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	got, err := f.DecryptText(ct, secret.FromString("pw"))
	if err != nil {
		t.Fatalf("DecryptText: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("got %q, want %q", got, plain)
	}
}

func TestEncryptFileDecryptFileRoundTrip(t *testing.T) {
	f := New(Config{})
	blob := bytes.Repeat([]byte("stream-chunk-payload-"), 1000)

	ct, err := f.EncryptFile(append([]byte(nil), blob...), secret.FromString("pw"),
		testOpts(WithChunkSize(256))...)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	got, err := f.DecryptFile(ct, secret.FromString("pw"))
	if err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatalf("round-trip mismatch, got %d bytes want %d", len(got), len(blob))
	}
}

func TestEncryptFileEmptyBlobProducesHeaderOnly(t *testing.T) {
	f := New(Config{})
	ct, err := f.EncryptFile(nil, secret.FromString("pw"), testOpts()...)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	got, err := f.DecryptFile(ct, secret.FromString("pw"))
	if err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestDecryptFileWrongPassphraseFails(t *testing.T) {
	f := New(Config{})
	blob := bytes.Repeat([]byte("x"), 5000)
	ct, err := f.EncryptFile(append([]byte(nil), blob...), secret.FromString("right"),
		testOpts(WithChunkSize(512))...)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	if _, err := f.DecryptFile(ct, secret.FromString("wrong")); !errors.Is(err, ErrDecryption) {
		t.Fatalf("err = %v, want ErrDecryption", err)
	}
}

func TestDecryptFileTruncatedFails(t *testing.T) {
	f := New(Config{})
	blob := bytes.Repeat([]byte("y"), 5000)
	ct, err := f.EncryptFile(append([]byte(nil), blob...), secret.FromString("pw"),
		testOpts(WithChunkSize(512))...)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	truncated := ct[:len(ct)-10]
	if _, err := f.DecryptFile(truncated, secret.FromString("pw")); !errors.Is(err, ErrDecryption) {
		t.Fatalf("err = %v, want ErrDecryption", err)
	}
}

func TestDecryptFileFrameBoundsViolationFails(t *testing.T) {
	f := New(Config{})
	blob := bytes.Repeat([]byte("z"), 5000)
	ct, err := f.EncryptFile(append([]byte(nil), blob...), secret.FromString("pw"),
		testOpts(WithChunkSize(512))...)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}

	h, err := f.DecodeHeader(ct)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	tampered := append([]byte(nil), ct...)
	// Corrupt the first frame's length prefix to something absurd.
	tampered[h.HeaderLen] = 0xFF
	tampered[h.HeaderLen+1] = 0xFF
	tampered[h.HeaderLen+2] = 0xFF
	tampered[h.HeaderLen+3] = 0xFF

	if _, err := f.DecryptFile(tampered, secret.FromString("pw")); !errors.Is(err, ErrDecryption) {
		t.Fatalf("err = %v, want ErrDecryption", err)
	}
}

func TestDecodeHeaderAndIsEncrypted(t *testing.T) {
	f := New(Config{})
	ct, err := f.EncryptText([]byte("payload"), secret.FromString("pw"), testOpts(WithScheme(1))...)
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}

	if !f.IsEncrypted(ct) {
		t.Fatalf("IsEncrypted = false, want true")
	}
	if f.IsEncrypted([]byte("plain garbage")) {
		t.Fatalf("IsEncrypted = true for non-container input")
	}

	hi, err := f.DecodeHeader(ct)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if hi.Scheme != 1 {
		t.Fatalf("Scheme = %d, want 1", hi.Scheme)
	}
	if hi.SaltLength != len(hi.SaltBytes) {
		t.Fatalf("SaltLength mismatch")
	}
}

func TestDecodeDataDisambiguatesTextVsChunked(t *testing.T) {
	f := New(Config{})

	textCT, err := f.EncryptText([]byte("short text payload"), secret.FromString("pw"), testOpts()...)
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	textInfo, err := f.DecodeData(textCT)
	if err != nil {
		t.Fatalf("DecodeData (text): %v", err)
	}
	if textInfo.Chunked {
		t.Fatalf("text container misclassified as chunked")
	}
	if len(textInfo.Ciphertext)+len(textInfo.IV)+len(textInfo.Tag) != len(textCT)-textInfo.HeaderLen {
		t.Fatalf("text container IV/ciphertext/tag lengths do not cover the payload")
	}

	blob := bytes.Repeat([]byte("w"), 5000)
	fileCT, err := f.EncryptFile(append([]byte(nil), blob...), secret.FromString("pw"),
		testOpts(WithChunkSize(512))...)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	fileInfo, err := f.DecodeData(fileCT)
	if err != nil {
		t.Fatalf("DecodeData (file): %v", err)
	}
	if !fileInfo.Chunked {
		t.Fatalf("file container misclassified as text")
	}
	if fileInfo.FrameCount == 0 {
		t.Fatalf("expected at least one frame")
	}
}

func TestUnknownSchemeRejected(t *testing.T) {
	f := New(Config{})
	if _, err := f.EncryptText([]byte("x"), secret.FromString("pw"), testOpts(WithScheme(5))...); !errors.Is(err, ErrScheme) {
		t.Fatalf("err = %v, want ErrScheme", err)
	}
}

func TestEncryptionStreamRoundTrip(t *testing.T) {
	f := New(Config{})
	plain := bytes.Repeat([]byte("streamed-plaintext-chunk "), 2000)

	es, err := f.CreateEncryptionStream(secret.FromString("pw"), testOpts(WithChunkSize(1024))...)
	if err != nil {
		t.Fatalf("CreateEncryptionStream: %v", err)
	}

	var ciphertext bytes.Buffer
	ciphertext.Write(es.Header)

	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(&ciphertext, es.Readable)
		done <- err
	}()

	for off := 0; off < len(plain); off += 777 {
		end := off + 777
		if end > len(plain) {
			end = len(plain)
		}
		if _, err := es.Writable.Write(plain[off:end]); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := es.Writable.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("copy from Readable: %v", err)
	}

	got, err := f.DecryptFile(ciphertext.Bytes(), secret.FromString("pw"))
	if err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("round-trip mismatch: got %d bytes, want %d", len(got), len(plain))
	}
}

func TestDecryptionStreamRoundTrip(t *testing.T) {
	f := New(Config{})
	blob := bytes.Repeat([]byte("decrypt-stream-payload "), 2000)

	ct, err := f.EncryptFile(append([]byte(nil), blob...), secret.FromString("pw"),
		testOpts(WithChunkSize(1024))...)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}

	ds := f.CreateDecryptionStream(secret.FromString("pw"))

	var plain bytes.Buffer
	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(&plain, ds.Readable)
		done <- err
	}()

	for off := 0; off < len(ct); off += 333 {
		end := off + 333
		if end > len(ct) {
			end = len(ct)
		}
		if _, err := ds.Write(ct[off:end]); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("copy from Readable: %v", err)
	}

	if !bytes.Equal(plain.Bytes(), blob) {
		t.Fatalf("round-trip mismatch: got %d bytes, want %d", plain.Len(), len(blob))
	}
}

func TestDecryptionStreamCloseWithoutHeaderFails(t *testing.T) {
	f := New(Config{})
	ds := f.CreateDecryptionStream(secret.FromString("pw"))

	done := make(chan struct{})
	go func() {
		io.Copy(io.Discard, ds.Readable)
		close(done)
	}()

	if _, err := ds.Write([]byte{0x01}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := ds.Close(); !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("Close err = %v, want ErrInvalidHeader", err)
	}
	<-done
}
