package engine

import "errors"

// Engine package errors, named after the teacher's pkg/session/errors.go.
var (
	// ErrKeyDerivation wraps any Argon2id backend failure.
	ErrKeyDerivation = errors.New("engine: key derivation failed")

	// ErrUnsupportedCipher is returned if a scheme's cipher constructor
	// returns a type InstallKey rejects — unreachable for the built-in
	// registry, guards custom registrations.
	ErrUnsupportedCipher = errors.New("engine: cipher rejected derived key")
)
