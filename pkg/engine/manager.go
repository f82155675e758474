// Package engine caches, per (provider identity, scheme id), the
// (descriptor, cipher instance, chunk size, provider) tuple the rest of the
// façade programs against, and drives Argon2id key derivation into that
// cipher. The cache itself is modeled directly on the teacher's
// pkg/session.Table/Manager pair: a mutex-guarded map keyed by a stable
// identity instead of an allocated session id, since Go has no reliable
// object-identity weak map (spec.md §9's "per-provider identity-keyed weak
// map" design note).
package engine

import (
	"sync"

	"github.com/pion/logging"

	"github.com/mqxym/cryptit-go/internal/secret"
	"github.com/mqxym/cryptit-go/pkg/aead"
	"github.com/mqxym/cryptit-go/pkg/kdf"
	"github.com/mqxym/cryptit-go/pkg/provider"
	"github.com/mqxym/cryptit-go/pkg/registry"
)

// Engine bundles everything one scheme needs once a key has been derived
// into it: the registry descriptor, a cipher instance bound to a provider,
// the chunk size new streams should use, and the provider itself.
type Engine struct {
	SchemeID   int
	Descriptor registry.Descriptor
	Cipher     aead.Cipher
	ChunkSize  int
	Provider   provider.Provider
}

// ZeroKey clears whatever key material the engine's cipher holds.
func (e *Engine) ZeroKey() {
	e.Cipher.ZeroKey()
}

type cacheKey struct {
	identity string
	scheme   int
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// LoggerFactory creates the manager's logger. Defaults to
	// logging.NewDefaultLoggerFactory() when nil — unlike the teacher's
	// transports, which silently leave logging nil (see DESIGN.md).
	LoggerFactory logging.LoggerFactory
}

// Manager is a per-provider cache of Engines, keyed by (provider identity,
// scheme id). GetEngine is idempotent for the same (provider, scheme) pair.
type Manager struct {
	registry *registry.Registry
	log      logging.LeveledLogger

	mu      sync.RWMutex
	engines map[cacheKey]*Engine
}

// NewManager creates a Manager resolving scheme ids against reg.
func NewManager(reg *registry.Registry, config ManagerConfig) *Manager {
	lf := config.LoggerFactory
	if lf == nil {
		lf = logging.NewDefaultLoggerFactory()
	}
	return &Manager{
		registry: reg,
		log:      lf.NewLogger("engine-manager"),
		engines:  make(map[cacheKey]*Engine),
	}
}

// GetEngine returns the cached Engine for (prov.Identity(), schemeID),
// constructing one on first use via the registry's CipherCtor.
func (m *Manager) GetEngine(prov provider.Provider, schemeID int) (*Engine, error) {
	key := cacheKey{identity: prov.Identity(), scheme: schemeID}

	m.mu.RLock()
	if e, ok := m.engines[key]; ok {
		m.mu.RUnlock()
		return e, nil
	}
	m.mu.RUnlock()

	desc, err := m.registry.Get(schemeID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.engines[key]; ok {
		return e, nil
	}

	e := &Engine{
		SchemeID:   schemeID,
		Descriptor: desc,
		Cipher:     desc.CipherCtor(prov),
		ChunkSize:  desc.DefaultChunkSize,
		Provider:   prov,
	}
	m.engines[key] = e
	m.log.Infof("engine created: scheme=%d provider=%s", schemeID, prov.Identity())
	return e, nil
}

// DeriveKey derives a 32-byte Argon2id key from pass and salt using the
// engine's scheme-specific difficulty parameters, installs it on the
// engine's cipher, and zeroes both the passphrase container and the local
// key copy before returning. pass is cleared on every exit path.
func (m *Manager) DeriveKey(e *Engine, pass *secret.Bytes, salt []byte, difficulty kdf.Difficulty) error {
	params, err := e.Descriptor.Params(difficulty)
	if err != nil {
		pass.Clear()
		return ErrKeyDerivation
	}

	key, err := kdf.Derive(pass, salt, params)
	if err != nil {
		return ErrKeyDerivation
	}
	defer secret.Wipe(key)

	if err := e.Cipher.InstallKey(e.Provider, key); err != nil {
		return ErrUnsupportedCipher
	}

	m.log.Debugf("key derived for scheme=%d difficulty=%s", e.SchemeID, difficulty)
	return nil
}

// Clear drops every cached engine, zeroizing each one's key material first —
// mirroring session.Manager.Clear().
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.engines {
		e.ZeroKey()
	}
	m.engines = make(map[cacheKey]*Engine)
}
