package engine

import (
	"testing"

	"github.com/mqxym/cryptit-go/internal/secret"
	"github.com/mqxym/cryptit-go/pkg/kdf"
	"github.com/mqxym/cryptit-go/pkg/provider"
	"github.com/mqxym/cryptit-go/pkg/registry"
)

func newTestManager() *Manager {
	return NewManager(registry.NewDefault(), ManagerConfig{})
}

func TestGetEngineCachesByIdentityAndScheme(t *testing.T) {
	m := newTestManager()
	prov := provider.NewDefault("p1")

	e1, err := m.GetEngine(prov, 0)
	if err != nil {
		t.Fatalf("GetEngine: %v", err)
	}
	e2, err := m.GetEngine(prov, 0)
	if err != nil {
		t.Fatalf("GetEngine: %v", err)
	}
	if e1 != e2 {
		t.Fatalf("GetEngine returned different instances for the same (provider, scheme)")
	}

	e3, err := m.GetEngine(prov, 1)
	if err != nil {
		t.Fatalf("GetEngine: %v", err)
	}
	if e3 == e1 {
		t.Fatalf("GetEngine returned the same instance for different scheme ids")
	}

	other := provider.NewDefault("p2")
	e4, err := m.GetEngine(other, 0)
	if err != nil {
		t.Fatalf("GetEngine: %v", err)
	}
	if e4 == e1 {
		t.Fatalf("GetEngine returned the same instance for different provider identities")
	}
}

func TestGetEngineUnknownScheme(t *testing.T) {
	m := newTestManager()
	prov := provider.NewDefault("p1")
	if _, err := m.GetEngine(prov, 99); err != registry.ErrUnknownScheme {
		t.Fatalf("err = %v, want ErrUnknownScheme", err)
	}
}

func TestDeriveKeyInstallsWorkingCipher(t *testing.T) {
	m := newTestManager()
	prov := provider.NewDefault("p1")
	e, err := m.GetEngine(prov, 0)
	if err != nil {
		t.Fatalf("GetEngine: %v", err)
	}

	pass := secret.FromString("correct horse battery staple")
	salt := make([]byte, 16)
	if err := m.DeriveKey(e, pass, salt, kdf.Low); err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}

	e.Cipher.SetAAD([]byte("hdr"))
	ct, err := e.Cipher.EncryptChunk([]byte("payload"))
	if err != nil {
		t.Fatalf("EncryptChunk: %v", err)
	}
	plain, err := e.Cipher.DecryptChunk(ct)
	if err != nil {
		t.Fatalf("DecryptChunk: %v", err)
	}
	if string(plain) != "payload" {
		t.Fatalf("got %q", plain)
	}
}

func TestDeriveKeyClearsPassphraseOnFailure(t *testing.T) {
	m := newTestManager()
	prov := provider.NewDefault("p1")
	e, err := m.GetEngine(prov, 0)
	if err != nil {
		t.Fatalf("GetEngine: %v", err)
	}

	pass := secret.FromString("x")
	if err := m.DeriveKey(e, pass, nil, kdf.Difficulty(99)); err != ErrKeyDerivation {
		t.Fatalf("err = %v, want ErrKeyDerivation", err)
	}
	if _, err := pass.Bytes(); err != secret.ErrCleared {
		t.Fatalf("passphrase not cleared on Params failure")
	}
}

func TestClearZeroizesAndEmptiesCache(t *testing.T) {
	m := newTestManager()
	prov := provider.NewDefault("p1")
	e, err := m.GetEngine(prov, 0)
	if err != nil {
		t.Fatalf("GetEngine: %v", err)
	}
	pass := secret.FromString("pw")
	if err := m.DeriveKey(e, pass, make([]byte, 16), kdf.Low); err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}

	m.Clear()

	if _, err := e.Cipher.EncryptChunk([]byte("x")); err == nil {
		t.Fatalf("expected encryption to fail after Clear zeroized the key")
	}

	e2, err := m.GetEngine(prov, 0)
	if err != nil {
		t.Fatalf("GetEngine after Clear: %v", err)
	}
	if e2 == e {
		t.Fatalf("GetEngine returned the stale pre-Clear engine")
	}
}
