// Package cryptit is the public façade: text/file/stream encrypt-decrypt
// operations, header/data inspection, and the streaming header
// auto-detection state machine, all built on pkg/engine, pkg/header and
// pkg/transform (spec.md §4.10).
package cryptit

import (
	"bytes"
	"io"

	"github.com/pion/logging"

	"github.com/mqxym/cryptit-go/internal/secret"
	"github.com/mqxym/cryptit-go/pkg/bytesource"
	"github.com/mqxym/cryptit-go/pkg/engine"
	"github.com/mqxym/cryptit-go/pkg/header"
	"github.com/mqxym/cryptit-go/pkg/provider"
	"github.com/mqxym/cryptit-go/pkg/registry"
	"github.com/mqxym/cryptit-go/pkg/transform"
)

// Config configures a Facade. Every field is optional; New fills in
// built-in defaults for whatever is left zero.
type Config struct {
	// Registry supplies the scheme descriptors. Defaults to
	// registry.NewDefault() (AES-256-GCM + XChaCha20-Poly1305).
	Registry *registry.Registry

	// Provider supplies the CSPRNG and AES-GCM primitive. Defaults to
	// provider.NewDefault with a fixed identity, which is sufficient for
	// a single-façade-per-task caller; callers running multiple
	// independent façades concurrently against the same provider should
	// supply distinct provider identities (spec.md §5).
	Provider provider.Provider

	// LoggerFactory creates the façade's and engine manager's loggers.
	// Defaults to logging.NewDefaultLoggerFactory().
	LoggerFactory logging.LoggerFactory
}

// Facade is the public entry point: one instance per task, holding a
// scheme registry, a provider, and an engine cache.
type Facade struct {
	registry *registry.Registry
	provider provider.Provider
	manager  *engine.Manager
	log      logging.LeveledLogger
}

// New builds a Facade from cfg, substituting built-in defaults for any
// zero field.
func New(cfg Config) *Facade {
	reg := cfg.Registry
	if reg == nil {
		reg = registry.NewDefault()
	}
	prov := cfg.Provider
	if prov == nil {
		prov = provider.NewDefault("cryptit-default")
	}
	lf := cfg.LoggerFactory
	if lf == nil {
		lf = logging.NewDefaultLoggerFactory()
	}

	return &Facade{
		registry: reg,
		provider: prov,
		manager:  engine.NewManager(reg, engine.ManagerConfig{LoggerFactory: lf}),
		log:      lf.NewLogger("cryptit"),
	}
}

// prepareEngine resolves the scheme's engine and applies the per-call
// padding/legacy-fallback/chunk-size configuration to its cipher.
func (f *Facade) prepareEngine(o EncryptOptions) (*engine.Engine, error) {
	e, err := f.manager.GetEngine(f.provider, o.Scheme)
	if err != nil {
		return nil, wrapScheme(err)
	}

	e.Cipher.SetPaddingScheme(o.Padding.Enabled)
	e.Cipher.SetPaddingAADMode(o.Padding.Mode)

	align := o.Padding.Align
	if align == 0 {
		align = 8
	}
	if err := e.Cipher.SetPaddingAlign(align); err != nil {
		return nil, wrapMalformedPadding(err)
	}

	e.Cipher.SetLegacyFallback(o.LegacyFallback)

	if o.ChunkSize > 0 {
		e.ChunkSize = o.ChunkSize
	}

	return e, nil
}

// saltAndDerive draws a fresh salt of the size o.SaltStrength requires for
// e's scheme, then derives and installs the key on e's cipher.
func (f *Facade) saltAndDerive(e *engine.Engine, pass *secret.Bytes, o EncryptOptions) ([]byte, error) {
	saltLen, err := e.Descriptor.SaltLength(o.SaltStrength)
	if err != nil {
		return nil, wrapScheme(err)
	}
	salt, err := f.provider.RandomBytes(saltLen)
	if err != nil {
		return nil, wrapEncryption(err)
	}
	if err := f.manager.DeriveKey(e, pass, salt, o.Difficulty); err != nil {
		return nil, wrapKeyDerivation(err)
	}
	return salt, nil
}

// EncryptText encrypts plain as a single-block text container: header,
// then one IV‖ciphertext‖tag AEAD frame. plain is zeroed in place by the
// underlying cipher; pass is zeroed by key derivation, success or failure.
func (f *Facade) EncryptText(plain []byte, pass *secret.Bytes, opts ...EncryptOption) ([]byte, error) {
	o := newEncryptOptions(opts...)

	e, err := f.prepareEngine(o)
	if err != nil {
		return nil, err
	}
	defer e.Cipher.ZeroKey()

	salt, err := f.saltAndDerive(e, pass, o)
	if err != nil {
		return nil, err
	}

	hdr, err := header.Encode(o.Scheme, o.Difficulty, o.SaltStrength, salt, e.Cipher)
	if err != nil {
		return nil, wrapHeader(err)
	}

	ct, err := e.Cipher.EncryptChunk(plain)
	if err != nil {
		return nil, wrapEncryption(err)
	}

	out := make([]byte, 0, len(hdr)+len(ct))
	out = append(out, hdr...)
	out = append(out, ct...)
	return out, nil
}

// DecryptText reverses EncryptText: decodes the header, resolves the
// engine from the recovered scheme id, derives the key, re-binds the
// header as AAD on the resolved cipher, and opens the single AEAD frame.
func (f *Facade) DecryptText(data []byte, pass *secret.Bytes) ([]byte, error) {
	h, err := header.Decode(data, f.registry, nil)
	if err != nil {
		pass.Clear()
		return nil, wrapHeader(err)
	}

	e, err := f.manager.GetEngine(f.provider, h.Scheme)
	if err != nil {
		pass.Clear()
		return nil, wrapScheme(err)
	}
	defer e.Cipher.ZeroKey()

	if err := f.manager.DeriveKey(e, pass, h.Salt, h.Difficulty); err != nil {
		return nil, wrapKeyDerivation(err)
	}

	if _, err := header.Decode(data, f.registry, e.Cipher); err != nil {
		return nil, wrapHeader(err)
	}

	plain, err := e.Cipher.DecryptChunk(data[h.HeaderLen:])
	if err != nil {
		return nil, wrapDecrypt(err)
	}
	return plain, nil
}

// EncryptFile encrypts blob as a framed file/stream container: header,
// then one-or-more LEN‖IV‖ciphertext‖tag frames. A 0-byte blob produces a
// header-only container.
func (f *Facade) EncryptFile(blob []byte, pass *secret.Bytes, opts ...EncryptOption) ([]byte, error) {
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

	if len(blob) == 0 {
		e.Cipher.ZeroKey()
		return hdr, nil
	}

	ct, err := streamEncrypt(e, blob)
	if err != nil {
		return nil, wrapEncryption(err)
	}

	out := make([]byte, 0, len(hdr)+len(ct))
	out = append(out, hdr...)
	out = append(out, ct...)
	return out, nil
}

// headerPeekCap is the number of leading bytes DecryptFile peeks to
// discover the header length before committing to a full decode.
const headerPeekCap = 64

// DecryptFile reverses EncryptFile: peeks the header through a
// bytesource.Source (so the peek works the same whether blob came from an
// in-memory buffer, a decoded base64 string, or an open file, per C11),
// resolves the engine and derives the key, re-binds AAD on the resolved
// cipher, then streams the remainder through a Decrypt transform.
func (f *Facade) DecryptFile(blob []byte, pass *secret.Bytes) ([]byte, error) {
	src := bytesource.FromBytes(blob)
	total, err := src.Len()
	if err != nil {
		pass.Clear()
		return nil, wrapHeader(err)
	}

	peekLen := total
	if peekLen > headerPeekCap {
		peekLen = headerPeekCap
	}
	peek := make([]byte, peekLen)
	if peekLen > 0 {
		if _, err := src.ReadAt(peek, 0); err != nil && err != io.EOF {
			pass.Clear()
			return nil, wrapHeader(err)
		}
	}

	h, err := header.Decode(peek, f.registry, nil)
	if err != nil {
		pass.Clear()
		return nil, wrapHeader(err)
	}

	e, err := f.manager.GetEngine(f.provider, h.Scheme)
	if err != nil {
		pass.Clear()
		return nil, wrapScheme(err)
	}

	if err := f.manager.DeriveKey(e, pass, h.Salt, h.Difficulty); err != nil {
		return nil, wrapKeyDerivation(err)
	}

	if _, err := header.Decode(blob, f.registry, e.Cipher); err != nil {
		return nil, wrapHeader(err)
	}

	if len(blob) == h.HeaderLen {
		e.Cipher.ZeroKey()
		return []byte{}, nil
	}

	plain, err := streamDecrypt(e, blob[h.HeaderLen:])
	if err != nil {
		return nil, wrapDecrypt(err)
	}
	return plain, nil
}

// streamEncrypt drives plain through a fresh Encrypt transform in
// engine-chunk-sized writes, returning the collected framed ciphertext.
func streamEncrypt(e *engine.Engine, plain []byte) ([]byte, error) {
	step := e.ChunkSize
	if step <= 0 {
		step = registry.DefaultChunkSize
	}

	var out bytes.Buffer
	tr := transform.NewEncrypt(e, &out)

	for len(plain) > 0 {
		n := step
		if n > len(plain) {
			n = len(plain)
		}
		if _, err := tr.Write(plain[:n]); err != nil {
			return nil, err
		}
		plain = plain[n:]
	}
	if err := tr.Flush(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// streamDecrypt drives framed ciphertext through a fresh Decrypt
// transform, returning the collected plaintext.
func streamDecrypt(e *engine.Engine, ciphertext []byte) ([]byte, error) {
	var out bytes.Buffer
	tr := transform.NewDecrypt(e, &out)

	if _, err := tr.Write(ciphertext); err != nil {
		return nil, err
	}
	if err := tr.Flush(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
