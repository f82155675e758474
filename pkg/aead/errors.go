package aead

import "errors"

// AEAD-layer errors. Those returned by DecryptChunk are wrapped into
// ErrDecryption at the façade boundary so authentication failures stay
// indistinguishable from wrong-passphrase failures (spec.md §7). Errors from
// EncryptChunk are wrapped into ErrEncryption, and ErrInvalidAlign from
// SetPaddingAlign into ErrMalformedPadding.
var (
	ErrDecryption       = errors.New("aead: decryption failed")
	ErrTooShort         = errors.New("aead: ciphertext too short")
	ErrTrailerRequired  = errors.New("aead: expected trailer not found")
	ErrTrailerForbidden = errors.New("aead: padding forbidden by policy")
	ErrNoPaddingScheme  = errors.New("aead: padding required but no scheme configured")
	ErrInvalidAlign     = errors.New("aead: padding align must be in [1,248]")
	ErrNoKey            = errors.New("aead: cipher key not set")
)
