// Package registry holds the process-wide, immutable-after-init mapping
// from a 3-bit scheme id to its SchemeDescriptor (cipher constructor, KDF
// presets, salt lengths, default chunk size). Modeled on the identity-keyed,
// single-owner tables in the teacher's pkg/session package, but keyed by a
// small fixed integer id instead of a session id, and populated once at
// startup rather than mutated over a session's lifetime.
package registry

import (
	"errors"
	"sync"

	"github.com/mqxym/cryptit-go/pkg/aead"
	"github.com/mqxym/cryptit-go/pkg/kdf"
	"github.com/mqxym/cryptit-go/pkg/provider"
)

// ErrUnknownScheme is returned when looking up an unregistered scheme id.
var ErrUnknownScheme = errors.New("registry: unknown scheme id")

// ErrDuplicateScheme is returned when registering an id that is already taken.
var ErrDuplicateScheme = errors.New("registry: scheme already registered")

// ErrInvalidScheme is returned when registering an id outside [0,7].
var ErrInvalidScheme = errors.New("registry: scheme id must be in [0,7]")

// SaltStrength selects the header salt length for a scheme.
type SaltStrength int

const (
	SaltLow SaltStrength = iota
	SaltHigh
)

func (s SaltStrength) String() string {
	switch s {
	case SaltLow:
		return "low"
	case SaltHigh:
		return "high"
	default:
		return "unknown"
	}
}

// CipherCtor builds a fresh, unkeyed aead.Cipher bound to prov (used for
// AES-256-GCM's provider-managed key handle, and as the RandomSource for
// both concrete ciphers).
type CipherCtor func(prov provider.Provider) aead.Cipher

// Descriptor is the immutable record describing one registered scheme.
type Descriptor struct {
	CipherCtor        CipherCtor
	KDFDifficulties   map[kdf.Difficulty]kdf.Params
	SaltLengths       map[SaltStrength]int
	DefaultChunkSize  int
}

// SaltLength returns the configured salt length for ss, or an error if the
// descriptor does not define one (unreachable for built-in schemes, but
// guards custom registrations).
func (d Descriptor) SaltLength(ss SaltStrength) (int, error) {
	n, ok := d.SaltLengths[ss]
	if !ok {
		return 0, ErrUnknownScheme
	}
	return n, nil
}

// Params returns the Argon2id parameters for a difficulty.
func (d Descriptor) Params(diff kdf.Difficulty) (kdf.Params, error) {
	p, ok := d.KDFDifficulties[diff]
	if !ok {
		return kdf.Params{}, ErrUnknownScheme
	}
	return p, nil
}

// Registry is a process-wide ordered mapping of scheme id to Descriptor.
// Registration is intended to happen only during initialization; the
// built-in schemes are installed by NewDefault.
type Registry struct {
	mu    sync.RWMutex
	descs map[int]Descriptor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{descs: make(map[int]Descriptor)}
}

// Register installs desc under id. id must be in [0,7] and not already taken.
func (r *Registry) Register(id int, desc Descriptor) error {
	if id < 0 || id > 7 {
		return ErrInvalidScheme
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descs[id]; exists {
		return ErrDuplicateScheme
	}
	r.descs[id] = desc
	return nil
}

// Get looks up the descriptor registered under id.
func (r *Registry) Get(id int) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descs[id]
	if !ok {
		return Descriptor{}, ErrUnknownScheme
	}
	return d, nil
}

// Current is the default scheme id used when the caller does not specify one.
const Current = 0
