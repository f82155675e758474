package registry

import (
	"github.com/mqxym/cryptit-go/pkg/aead"
	"github.com/mqxym/cryptit-go/pkg/kdf"
	"github.com/mqxym/cryptit-go/pkg/provider"
)

// DefaultChunkSize is the default chunk size for both built-in schemes
// (512 KiB), used by the streaming encrypt transform unless overridden.
const DefaultChunkSize = 512 * 1024

// NewDefault returns a Registry with the two built-in schemes installed:
// scheme 0 (AES-256-GCM) and scheme 1 (XChaCha20-Poly1305), with the
// Argon2id presets required for interop with existing ciphertexts
// (spec.md §4.2).
func NewDefault() *Registry {
	r := New()

	// Scheme 0: AES-256-GCM.
	_ = r.Register(0, Descriptor{
		CipherCtor: func(prov provider.Provider) aead.Cipher {
			return aead.NewAESGCM(prov)
		},
		KDFDifficulties: map[kdf.Difficulty]kdf.Params{
			kdf.Low:    {Time: 5, MemoryKiB: 65536, Parallelism: 1},
			kdf.Middle: {Time: 20, MemoryKiB: 65536, Parallelism: 1},
			kdf.High:   {Time: 40, MemoryKiB: 65536, Parallelism: 1},
		},
		SaltLengths: map[SaltStrength]int{
			SaltLow:  12,
			SaltHigh: 16,
		},
		DefaultChunkSize: DefaultChunkSize,
	})

	// Scheme 1: XChaCha20-Poly1305.
	_ = r.Register(1, Descriptor{
		CipherCtor: func(prov provider.Provider) aead.Cipher {
			return aead.NewXChaCha(prov)
		},
		KDFDifficulties: map[kdf.Difficulty]kdf.Params{
			kdf.Low:    {Time: 5, MemoryKiB: 65536, Parallelism: 2},
			kdf.Middle: {Time: 10, MemoryKiB: 98304, Parallelism: 4},
			kdf.High:   {Time: 20, MemoryKiB: 98304, Parallelism: 4},
		},
		SaltLengths: map[SaltStrength]int{
			SaltLow:  12,
			SaltHigh: 16,
		},
		DefaultChunkSize: DefaultChunkSize,
	})

	return r
}
