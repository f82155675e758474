package aead

import (
	"github.com/mqxym/cryptit-go/pkg/provider"
)

const (
	aesGCMIVLength  = 12
	aesGCMTagLength = 16
)

// AESGCM is the scheme-0 cipher: AES-256-GCM with a fresh random 12-byte IV
// per call and a 16-byte tag, keyed through a provider.Provider so the key
// can remain a non-extractable handle.
type AESGCM struct {
	*Base
	prov   provider.Provider
	handle *provider.KeyHandle
}

// NewAESGCM creates an AES-256-GCM cipher backed by prov, which also
// supplies the CSPRNG used for IVs and padding filler.
func NewAESGCM(prov provider.Provider) *AESGCM {
	c := &AESGCM{prov: prov}
	c.Base = newBase(c, prov)
	return c
}

// SetKeyHandle installs a provider-managed key handle, typically produced
// by importing a freshly derived key as non-extractable.
func (c *AESGCM) SetKeyHandle(h *provider.KeyHandle) {
	c.handle = h
}

// InstallKey imports raw as a non-extractable key handle on prov.
func (c *AESGCM) InstallKey(prov provider.Provider, raw []byte) error {
	h, err := prov.ImportRawKey(raw, false)
	if err != nil {
		return err
	}
	c.prov = prov
	c.handle = h
	return nil
}

func (c *AESGCM) sealWithAAD(iv, plaintext, aad []byte) ([]byte, error) {
	return c.prov.AEADEncrypt(c.handle, iv, plaintext, aad)
}

func (c *AESGCM) openWithAAD(iv, ciphertext, aad []byte) ([]byte, error) {
	return c.prov.AEADDecrypt(c.handle, iv, ciphertext, aad)
}

func (c *AESGCM) ivLength() int  { return aesGCMIVLength }
func (c *AESGCM) tagLength() int { return aesGCMTagLength }
func (c *AESGCM) hasKey() bool   { return c.handle != nil }

func (c *AESGCM) zeroKey() {
	provider.ZeroizeKey(c.handle)
	c.handle = nil
}
