package cryptit

import (
	"github.com/mqxym/cryptit-go/pkg/aead"
	"github.com/mqxym/cryptit-go/pkg/kdf"
	"github.com/mqxym/cryptit-go/pkg/registry"
)

// PaddingOptions configures the length-hiding padding trailer for one
// encrypt operation.
type PaddingOptions struct {
	// Enabled turns the padding trailer on. Align/Mode only matter when
	// this is true, or when Mode is explicitly Require.
	Enabled bool
	Align   int
	Mode    aead.PaddingPolicy
}

// EncryptOptions collects every knob an encrypt_* operation exposes.
// Build one with newEncryptOptions and the With* functions below; the zero
// value is never used directly so option structs never need an "is this
// field set" sentinel.
type EncryptOptions struct {
	Scheme         int
	Difficulty     kdf.Difficulty
	SaltStrength   registry.SaltStrength
	Padding        PaddingOptions
	LegacyFallback aead.LegacyFallback
	ChunkSize      int
}

// EncryptOption mutates an in-progress EncryptOptions.
type EncryptOption func(*EncryptOptions)

// WithScheme selects the scheme id (0..7). Default: registry.Current (0).
func WithScheme(id int) EncryptOption {
	return func(o *EncryptOptions) { o.Scheme = id }
}

// WithDifficulty selects the Argon2id difficulty preset. Default: Middle.
func WithDifficulty(d kdf.Difficulty) EncryptOption {
	return func(o *EncryptOptions) { o.Difficulty = d }
}

// WithSaltStrength selects the header salt length. Default: SaltHigh.
func WithSaltStrength(ss registry.SaltStrength) EncryptOption {
	return func(o *EncryptOptions) { o.SaltStrength = ss }
}

// WithPadding enables the padding trailer with the given alignment and
// policy mode. Default: disabled, align 8, mode Auto.
func WithPadding(align int, mode aead.PaddingPolicy) EncryptOption {
	return func(o *EncryptOptions) {
		o.Padding = PaddingOptions{Enabled: true, Align: align, Mode: mode}
	}
}

// WithLegacyFallback overrides the legacy-AAD retry configuration.
// Default: aead.DefaultLegacyFallback().
func WithLegacyFallback(cfg aead.LegacyFallback) EncryptOption {
	return func(o *EncryptOptions) { o.LegacyFallback = cfg }
}

// WithChunkSize overrides the scheme's default chunk size for file/stream
// operations. Has no effect on encrypt_text/decrypt_text.
func WithChunkSize(n int) EncryptOption {
	return func(o *EncryptOptions) { o.ChunkSize = n }
}

func newEncryptOptions(opts ...EncryptOption) EncryptOptions {
	o := EncryptOptions{
		Scheme:         registry.Current,
		Difficulty:     kdf.Middle,
		SaltStrength:   registry.SaltHigh,
		Padding:        PaddingOptions{Enabled: false, Align: 8, Mode: aead.Auto},
		LegacyFallback: aead.DefaultLegacyFallback(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
