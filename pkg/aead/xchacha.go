package aead

import (
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/mqxym/cryptit-go/pkg/provider"
)

const (
	xChaChaIVLength  = chacha20poly1305.NonceSizeX // 24
	xChaChaTagLength = 16
)

// XChaCha is the scheme-1 cipher: XChaCha20-Poly1305 with a 24-byte nonce.
// Its key cannot be handed to a provider-managed GCM handle: InstallKey
// copies the raw derived key and holds it in process memory until zeroKey
// wipes it. The key is not imported into or exported from a
// provider.KeyHandle on the way.
type XChaCha struct {
	*Base
	rawKey []byte
	aead   cipher.AEAD
}

// NewXChaCha creates an XChaCha20-Poly1305 cipher. rng supplies nonces and
// padding filler bytes (it need not be the same provider.Provider used for
// AES-256-GCM, since this cipher never calls into the provider's AEAD
// primitive).
func NewXChaCha(rng RandomSource) *XChaCha {
	c := &XChaCha{}
	c.Base = newBase(c, rng)
	return c
}

// SetRawKey imports a 32-byte raw key, such as the Argon2id output that
// InstallKey passes through; the key bytes are copied.
func (c *XChaCha) SetRawKey(raw []byte) error {
	aead, err := chacha20poly1305.NewX(raw)
	if err != nil {
		return err
	}
	key := make([]byte, len(raw))
	copy(key, raw)
	c.rawKey = key
	c.aead = aead
	return nil
}

// InstallKey imports raw as the XChaCha20-Poly1305 key. prov is unused: this
// cipher never holds a provider-managed handle.
func (c *XChaCha) InstallKey(_ provider.Provider, raw []byte) error {
	return c.SetRawKey(raw)
}

func (c *XChaCha) sealWithAAD(iv, plaintext, aad []byte) ([]byte, error) {
	if c.aead == nil {
		return nil, ErrNoKey
	}
	return c.aead.Seal(nil, iv, plaintext, aad), nil
}

func (c *XChaCha) openWithAAD(iv, ciphertext, aad []byte) ([]byte, error) {
	if c.aead == nil {
		return nil, ErrNoKey
	}
	return c.aead.Open(nil, iv, ciphertext, aad)
}

func (c *XChaCha) ivLength() int  { return xChaChaIVLength }
func (c *XChaCha) tagLength() int { return xChaChaTagLength }
func (c *XChaCha) hasKey() bool   { return c.aead != nil }

func (c *XChaCha) zeroKey() {
	for i := range c.rawKey {
		c.rawKey[i] = 0
	}
	c.rawKey = nil
	c.aead = nil
}
