package session

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/keystore"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/metrics"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/platform/privacylog"
)

// MinKeyBits is the floor for generated moduli; smaller configured sizes are
// raised to it.
const MinKeyBits = 2048

// Manager owns the in-memory key pair for one storage slot. Initialization
// is exactly-once under concurrency: the first EnsureReady starts the
// load-or-generate flight and every concurrent caller attaches to it.
type Manager struct {
	store keystore.Store
	slot  string
	bits  int
	log   *slog.Logger

	mu     sync.RWMutex
	pair   *KeyPair
	flight singleflight.Group
}

func NewManager(store keystore.Store, slot string, bits int, log *slog.Logger) *Manager {
	if bits < MinKeyBits {
		bits = MinKeyBits
	}
	return &Manager{store: store, slot: slot, bits: bits, log: privacylog.NewLogger(log)}
}

// EnsureReady returns the active key pair, loading it from the keystore or
// generating a fresh one on first use. Generation failure is the only fatal
// path; unreadable or corrupt stored records fall through to regeneration.
func (m *Manager) EnsureReady(ctx context.Context) (*KeyPair, error) {
	m.mu.RLock()
	if pair := m.pair; pair != nil {
		m.mu.RUnlock()
		return pair, nil
	}
	m.mu.RUnlock()

	ch := m.flight.DoChan("ensure", func() (any, error) {
		return m.loadOrGenerate()
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*KeyPair), nil
	}
}

func (m *Manager) loadOrGenerate() (*KeyPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pair != nil {
		return m.pair, nil
	}

	if pair := m.loadLocked(); pair != nil {
		m.pair = pair
		metrics.KeyLoads.Inc()
		m.log.Debug("adopted stored key pair", "slot", m.slot, "key_fingerprint", Fingerprint(pair))
		return pair, nil
	}

	priv, err := rsa.GenerateKey(rand.Reader, m.bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	pair := &KeyPair{Private: priv, CreatedAt: time.Now().UTC()}

	rec, err := encodeRecord(m.slot, pair)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if err := m.store.Save(m.slot, rec); err != nil {
		// The pair still serves this process; persistence heals on the
		// next successful save.
		m.log.Warn("key pair persist failed, continuing in memory", "slot", m.slot, "error", err)
	}
	m.pair = pair
	metrics.KeyGenerations.Inc()
	m.log.Info("generated key pair", "slot", m.slot, "bits", m.bits, "key_fingerprint", Fingerprint(pair))
	return pair, nil
}

// loadLocked returns a usable stored pair or nil. Corrupt records are
// discarded here so EnsureReady can regenerate.
func (m *Manager) loadLocked() *KeyPair {
	rec, err := m.store.Load(m.slot)
	if err != nil || rec == nil {
		if err != nil {
			m.log.Warn("keystore load failed", "slot", m.slot, "error", err)
		}
		return nil
	}
	pair, err := decodeRecord(*rec)
	if err != nil {
		metrics.KeySelfHeals.Inc()
		m.log.Warn("discarding corrupt stored key pair", "slot", m.slot, "error", err)
		return nil
	}
	return pair
}

// ReloadFromStore re-adopts the stored pair without regenerating, for
// recovery after in-memory state was lost. Returns ErrNoStoredKey when the
// slot is empty or its record is unusable; regeneration stays with the
// caller's policy.
func (m *Manager) ReloadFromStore(ctx context.Context) (*KeyPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pair := m.loadLocked()
	if pair == nil {
		return nil, ErrNoStoredKey
	}
	m.pair = pair
	metrics.KeyLoads.Inc()
	m.log.Debug("reloaded key pair from store", "slot", m.slot, "key_fingerprint", Fingerprint(pair))
	return pair, nil
}

// Clear drops the in-memory pair and the stored record, e.g. on logout. It
// is serialized against EnsureReady; the next EnsureReady generates fresh
// keys.
func (m *Manager) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = nil
	m.flight.Forget("ensure")
	if err := m.store.Clear(m.slot); err != nil {
		return err
	}
	m.log.Info("cleared key pair", "slot", m.slot)
	return nil
}

// Current returns the adopted pair without triggering initialization.
func (m *Manager) Current() (*KeyPair, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pair, m.pair != nil
}
