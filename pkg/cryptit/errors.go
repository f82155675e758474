package cryptit

import (
	"errors"
	"fmt"

	"github.com/mqxym/cryptit-go/pkg/header"
)

// Error kinds surfaced across the façade boundary. Decryption-path failures
// (AEAD authentication, frame bounds, truncation, padding-policy mismatch)
// all collapse into the ErrDecryption kind; the message is ErrDecryption's
// fixed text followed by the lower layer's error text. A wrong passphrase
// and corrupted/tampered ciphertext both fail AEAD authentication and so
// produce the same error.
var (
	ErrInvalidHeader    = errors.New("cryptit: invalid header")
	ErrHeaderDecode     = errors.New("cryptit: unable to decode header")
	ErrDecoding         = errors.New("cryptit: malformed base64 input")
	ErrEncoding         = errors.New("cryptit: internal encoding failure")
	ErrScheme           = errors.New("cryptit: scheme registry misuse")
	ErrKeyDerivation    = errors.New("cryptit: key derivation failed")
	ErrEncryption       = errors.New("cryptit: encryption failed")
	ErrDecryption       = errors.New("cryptit: wrong passphrase or corrupted ciphertext")
	ErrFilesystem       = errors.New("cryptit: filesystem operation rejected")
	ErrMalformedPadding = errors.New("cryptit: malformed padding configuration")
)

// errHeaderScanOverflow is returned by the streaming decryptor when more
// than maxHeaderScan bytes accumulate without a complete header, and when
// the stream is closed before a complete header arrived.
var errHeaderScanOverflow = fmt.Errorf("%w: header not found before end of stream", ErrInvalidHeader)

// wrapHeader classifies a pkg/header error into ErrInvalidHeader or
// ErrHeaderDecode, falling back to the generic decryption kind for
// anything unrecognized.
func wrapHeader(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, header.ErrInvalidHeader):
		return fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	case errors.Is(err, header.ErrHeaderDecode):
		return fmt.Errorf("%w: %v", ErrHeaderDecode, err)
	default:
		return fmt.Errorf("%w: %v", ErrDecryption, err)
	}
}

func wrapScheme(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrScheme, err)
}

func wrapKeyDerivation(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrKeyDerivation, err)
}

func wrapEncryption(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrEncryption, err)
}

func wrapMalformedPadding(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrMalformedPadding, err)
}

// wrapDecrypt collapses any aead/transform-layer failure (authentication
// failure, short ciphertext, padding-policy mismatch, frame-bounds
// violation, truncated stream) into the single generic ErrDecryption kind.
func wrapDecrypt(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrDecryption, err)
}
