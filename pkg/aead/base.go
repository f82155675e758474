// Package aead implements the padding-policy-aware AEAD chunk cipher shared
// by the AES-256-GCM and XChaCha20-Poly1305 schemes. Padding-aware behavior
// lives entirely in Base; concrete ciphers implement only two hook methods
// (sealWithAAD/openWithAAD) plus IV/tag length and key lifecycle — the
// polymorphism the teacher's AESCCM type collapses into one concrete struct
// is split here into a shared base plus a small per-cipher hook set, since
// this format needs two materially different AEAD backends.
package aead

import (
	"github.com/mqxym/cryptit-go/pkg/padding"
	"github.com/mqxym/cryptit-go/pkg/provider"
)

// RandomSource supplies IVs/nonces and padding filler bytes.
type RandomSource interface {
	RandomBytes(n int) ([]byte, error)
}

// Cipher is the polymorphic surface pkg/header, pkg/engine and pkg/cryptit
// program against: a chunk-level AEAD with padding-policy configuration and
// key lifecycle, satisfied by both *AESGCM and *XChaCha: InstallKey is
// defined on each concrete type, the rest comes from their embedded *Base.
type Cipher interface {
	// InstallKey installs a freshly derived 32-byte raw key. prov is
	// consulted only by ciphers that need a provider-managed key handle
	// (AES-256-GCM); ciphers that hold raw key material directly
	// (XChaCha20-Poly1305) ignore it.
	InstallKey(prov provider.Provider, raw []byte) error
	SetAAD(data []byte)
	SetPaddingScheme(enabled bool)
	SetPaddingAADMode(mode PaddingPolicy)
	SetPaddingAlign(align int) error
	SetLegacyFallback(cfg LegacyFallback)
	ZeroKey()
	EncryptChunk(plain []byte) ([]byte, error)
	DecryptChunk(data []byte) ([]byte, error)
	IVLength() int
	TagLength() int
}

// hooks is implemented by each concrete cipher (AESGCM, XChaCha) and
// invoked by Base to perform the actual AEAD seal/open and report its key
// lifecycle. It is never exposed outside this package.
type hooks interface {
	sealWithAAD(iv, plaintext, aad []byte) ([]byte, error)
	openWithAAD(iv, ciphertext, aad []byte) ([]byte, error)
	ivLength() int
	tagLength() int
	hasKey() bool
	zeroKey()
}

// Base holds the padding-policy state and AAD composition shared by every
// concrete cipher, and drives EncryptChunk/DecryptChunk per spec.md §4.4.
type Base struct {
	impl hooks
	rng  RandomSource

	headerAAD      []byte
	paddingEnabled bool
	paddingAADMode PaddingPolicy
	paddingAlign   int
	legacy         LegacyFallback
}

func newBase(impl hooks, rng RandomSource) *Base {
	return &Base{
		impl:           impl,
		rng:            rng,
		paddingAADMode: Auto,
		paddingAlign:   8,
		legacy:         DefaultLegacyFallback(),
	}
}

// SetAAD copies data and installs it as the header AAD bound into every
// subsequent AEAD call. Called by the header codec once a header has been
// encoded or decoded, tying the format's metadata byte to every ciphertext.
func (b *Base) SetAAD(data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	b.headerAAD = cp
}

// SetPaddingScheme toggles whether the padding trailer is applied at all.
func (b *Base) SetPaddingScheme(enabled bool) {
	b.paddingEnabled = enabled
}

// SetPaddingAADMode sets the configured policy (Auto/Require/Forbid).
func (b *Base) SetPaddingAADMode(mode PaddingPolicy) {
	b.paddingAADMode = mode
}

// SetPaddingAlign sets the alignment block size used both for padding and
// for the PAD AAD binding. align must be in [1,248].
func (b *Base) SetPaddingAlign(align int) error {
	if align < 1 || align > 248 {
		return ErrInvalidAlign
	}
	b.paddingAlign = align
	return nil
}

// SetLegacyFallback installs the legacy-AAD retry configuration.
func (b *Base) SetLegacyFallback(cfg LegacyFallback) {
	b.legacy = cfg
}

// ZeroKey clears whatever key material the concrete cipher holds.
func (b *Base) ZeroKey() {
	b.impl.zeroKey()
}

// IVLength and TagLength expose the concrete cipher's framing sizes.
func (b *Base) IVLength() int  { return b.impl.ivLength() }
func (b *Base) TagLength() int { return b.impl.tagLength() }

func (b *Base) effectivePolicy() PaddingPolicy {
	if b.paddingAADMode != Auto {
		return b.paddingAADMode
	}
	if b.paddingEnabled {
		return Require
	}
	return Forbid
}

func (b *Base) composedAAD(effective PaddingPolicy) []byte {
	padAAD := buildPadAAD(effective, b.paddingAlign)
	out := make([]byte, 0, len(b.headerAAD)+len(padAAD))
	out = append(out, b.headerAAD...)
	out = append(out, padAAD...)
	return out
}

// EncryptChunk seals one chunk of plaintext: applies the padding trailer if
// the effective policy is Require, composes AAD from the header bytes and
// the policy fragment, and returns iv||ciphertext||tag. plain is zeroed in
// place before returning, on every exit path.
func (b *Base) EncryptChunk(plain []byte) ([]byte, error) {
	defer wipe(plain)

	if !b.impl.hasKey() {
		return nil, ErrNoKey
	}

	effective := b.effectivePolicy()

	var toEncrypt []byte
	switch effective {
	case Require:
		if !b.paddingEnabled {
			return nil, ErrNoPaddingScheme
		}
		padded, err := padding.Pad(plain, b.rng, b.paddingAlign)
		if err != nil {
			return nil, err
		}
		toEncrypt = padded
	default:
		toEncrypt = plain
	}

	aad := b.composedAAD(effective)

	iv, err := b.rng.RandomBytes(b.impl.ivLength())
	if err != nil {
		return nil, err
	}

	ct, err := b.impl.sealWithAAD(iv, toEncrypt, aad)

	if !sameBacking(toEncrypt, plain) {
		wipe(toEncrypt)
	}

	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(iv)+len(ct))
	out = append(out, iv...)
	out = append(out, ct...)
	return out, nil
}

// DecryptChunk opens one frame (iv||ciphertext||tag), enforcing the
// configured padding policy and, on authentication failure, optionally
// retrying with a reduced (legacy) AAD per spec.md §4.4.
func (b *Base) DecryptChunk(data []byte) ([]byte, error) {
	if !b.impl.hasKey() {
		return nil, ErrNoKey
	}

	minLen := b.impl.ivLength() + b.impl.tagLength()
	if len(data) < minLen {
		return nil, ErrTooShort
	}
	iv := data[:b.impl.ivLength()]
	ct := data[b.impl.ivLength():]

	effective := b.effectivePolicy()
	aad := b.composedAAD(effective)

	plain, err := b.impl.openWithAAD(iv, ct, aad)
	if err == nil {
		return b.applyPolicy(effective, plain)
	}

	if b.legacy.Enabled {
		if len(b.headerAAD) > 0 {
			if plain, err2 := b.impl.openWithAAD(iv, ct, b.headerAAD); err2 == nil {
				return b.applyPolicy(b.legacy.Policy, plain)
			}
		}
		if b.legacy.TryEmptyAAD {
			if plain, err2 := b.impl.openWithAAD(iv, ct, nil); err2 == nil {
				return b.applyPolicy(b.legacy.Policy, plain)
			}
		}
	}

	return nil, ErrDecryption
}

func (b *Base) applyPolicy(effective PaddingPolicy, plain []byte) ([]byte, error) {
	used, stripped := padding.TryUnpad(plain)
	switch effective {
	case Require:
		if !used {
			return nil, ErrTrailerRequired
		}
		return stripped, nil
	case Forbid:
		if used {
			return nil, ErrTrailerForbidden
		}
		return plain, nil
	default: // Auto
		if used {
			return stripped, nil
		}
		return plain, nil
	}
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func sameBacking(a, b []byte) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}
