package keystore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/platform/privacylog"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/securestore"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/pkg/models"
)

const recordExt = ".zpkey"

// FileStore keeps one encrypted record file per slot under a base directory.
// Records are sealed with the store passphrase; a record that cannot be
// decrypted or decoded is reported as absent rather than as a hard error.
type FileStore struct {
	mu         sync.Mutex
	dir        string
	passphrase string
	log        *slog.Logger
}

func NewFileStore(dir, passphrase string, log *slog.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty base directory", ErrWriteFailed)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return &FileStore{dir: dir, passphrase: passphrase, log: privacylog.NewLogger(log)}, nil
}

func (s *FileStore) Save(slot string, rec models.StoredKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Slot = normalizeSlot(slot)
	if err := securestore.WriteEncryptedJSON(s.pathFor(slot), s.passphrase, rec); err != nil {
		return fmt.Errorf("%w: slot %s: %v", ErrWriteFailed, rec.Slot, err)
	}
	return nil
}

func (s *FileStore) Load(slot string) (*models.StoredKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.pathFor(slot)
	var rec models.StoredKeyRecord
	err := securestore.ReadDecryptedJSON(path, s.passphrase, &rec)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		return nil, nil
	case errors.Is(err, securestore.ErrAuthFailed), errors.Is(err, securestore.ErrInvalid):
		// Undecryptable records block key recovery forever if surfaced as
		// errors; report absent so the caller regenerates.
		s.log.Debug("keystore record unreadable, treating as absent", "slot", normalizeSlot(slot))
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: slot %s: %v", ErrReadFailed, normalizeSlot(slot), err)
	}
	if !recordUsable(rec, slot) {
		s.log.Debug("keystore record incomplete, treating as absent", "slot", normalizeSlot(slot))
		return nil, nil
	}
	return &rec, nil
}

func (s *FileStore) Clear(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.pathFor(slot))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: slot %s: %v", ErrWriteFailed, normalizeSlot(slot), err)
	}
	return nil
}

func (s *FileStore) pathFor(slot string) string {
	return filepath.Join(s.dir, normalizeSlot(slot)+recordExt)
}
