// Package keystore persists one serialized key pair record per storage slot.
// It is pure storage: callers own key parsing and validation, the store only
// guarantees that a structurally broken record is reported as absent so the
// session layer can regenerate.
package keystore

import (
	"errors"
	"strings"

	"github.com/Amarnathp8247/zpay-corp-admin-sub001/pkg/models"
)

var (
	ErrWriteFailed = errors.New("keystore write failed")
	ErrReadFailed  = errors.New("keystore read failed")
)

type Store interface {
	// Save replaces the record for slot.
	Save(slot string, rec models.StoredKeyRecord) error
	// Load returns nil (not an error) when no record exists for slot.
	Load(slot string) (*models.StoredKeyRecord, error)
	// Clear removes the record for slot; clearing an empty slot is a no-op.
	Clear(slot string) error
}

// recordUsable reports whether a loaded record carries both key halves for
// the requested slot. Anything less is treated as not found.
func recordUsable(rec models.StoredKeyRecord, slot string) bool {
	if rec.PublicKeyPEM == "" || rec.PrivateKeyPEM == "" {
		return false
	}
	return rec.Slot == "" || rec.Slot == normalizeSlot(slot)
}

func normalizeSlot(slot string) string {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return "default"
	}
	var b strings.Builder
	for _, r := range slot {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
