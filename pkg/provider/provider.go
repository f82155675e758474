// Package provider abstracts the platform CSPRNG and AES-256-GCM AEAD
// primitive behind a capability interface, so callers can substitute a
// hardware-backed or non-extractable-key implementation without touching
// the rest of the engine.
package provider

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// KeySize is the raw AES-256 key length in bytes.
const KeySize = 32

// Errors returned by Provider implementations.
var (
	ErrInvalidKeySize  = errors.New("provider: invalid key size, must be 32 bytes")
	ErrNotExtractable  = errors.New("provider: key handle is not extractable")
	ErrRandomSource    = errors.New("provider: random source failure")
	ErrAEADUnavailable = errors.New("provider: AEAD primitive unavailable")
)

// KeyHandle wraps raw AES-256 key material. Extractable handles permit
// ExportRawKey; non-extractable handles only permit use through
// AEADEncrypt/AEADDecrypt on the same provider instance.
type KeyHandle struct {
	raw         []byte
	extractable bool
}

// Provider is the capability set every cryptographic backend must expose:
// a strong CSPRNG, AES-256-GCM encrypt/decrypt with explicit IV and AAD, and
// raw-key import/export. It does not handle XChaCha20-Poly1305 — that cipher
// is implemented in pure Go on top of an exported raw key (see pkg/aead).
type Provider interface {
	// Identity returns a stable token identifying this provider instance.
	// Used by pkg/engine to key its per-provider engine cache; Go has no
	// reliable object-identity weak map, so callers opt into cache sharing
	// by reusing the same identity string.
	Identity() string

	// RandomBytes returns n cryptographically strong random bytes.
	RandomBytes(n int) ([]byte, error)

	// ImportRawKey wraps key as a KeyHandle. If extractable is false, the
	// handle can only be used for AEADEncrypt/AEADDecrypt on this provider.
	ImportRawKey(key []byte, extractable bool) (*KeyHandle, error)

	// ExportRawKey returns the raw key bytes of an extractable handle.
	ExportRawKey(h *KeyHandle) ([]byte, error)

	// AEADEncrypt seals plaintext under h using AES-256-GCM with the given
	// iv (12 bytes) and aad. Returns ciphertext||tag.
	AEADEncrypt(h *KeyHandle, iv, plaintext, aad []byte) ([]byte, error)

	// AEADDecrypt opens ciphertext||tag under h using AES-256-GCM with the
	// given iv and aad.
	AEADDecrypt(h *KeyHandle, iv, ciphertext, aad []byte) ([]byte, error)
}

// Default is the stdlib-backed Provider: crypto/rand for randomness and
// crypto/aes + crypto/cipher for AES-256-GCM. Key handles are plain
// in-process byte slices; "non-extractable" is enforced only at the API
// level (Go has no hardware key isolation), matching the teacher's own use
// of bare byte slices for session keys in pkg/session.
type Default struct {
	identity string
}

// NewDefault creates a stdlib-backed Provider identified by identity.
// Two Default providers with the same identity share engine-cache entries
// in pkg/engine; use distinct identities for independent key material.
func NewDefault(identity string) *Default {
	return &Default{identity: identity}
}

func (d *Default) Identity() string {
	return d.identity
}

func (d *Default) RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, ErrRandomSource
	}
	return b, nil
}

func (d *Default) ImportRawKey(key []byte, extractable bool) (*KeyHandle, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	raw := make([]byte, KeySize)
	copy(raw, key)
	return &KeyHandle{raw: raw, extractable: extractable}, nil
}

func (d *Default) ExportRawKey(h *KeyHandle) ([]byte, error) {
	if h == nil {
		return nil, ErrInvalidKeySize
	}
	if !h.extractable {
		return nil, ErrNotExtractable
	}
	out := make([]byte, len(h.raw))
	copy(out, h.raw)
	return out, nil
}

func (d *Default) AEADEncrypt(h *KeyHandle, iv, plaintext, aad []byte) ([]byte, error) {
	gcm, err := d.gcm(h)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, iv, plaintext, aad), nil
}

func (d *Default) AEADDecrypt(h *KeyHandle, iv, ciphertext, aad []byte) ([]byte, error) {
	gcm, err := d.gcm(h)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, iv, ciphertext, aad)
}

func (d *Default) gcm(h *KeyHandle) (cipher.AEAD, error) {
	if h == nil || len(h.raw) != KeySize {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(h.raw)
	if err != nil {
		return nil, ErrAEADUnavailable
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrAEADUnavailable
	}
	return gcm, nil
}

// ZeroizeKey overwrites a KeyHandle's raw bytes in place. Callers should
// call this once a key is no longer needed, even for non-extractable
// handles, since the Default provider keeps raw bytes in process memory.
func ZeroizeKey(h *KeyHandle) {
	if h == nil {
		return
	}
	for i := range h.raw {
		h.raw[i] = 0
	}
}
