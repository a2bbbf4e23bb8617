package securestore

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ReadDecryptedJSON reads an encrypted file and unmarshals its plaintext
// into v.
func ReadDecryptedJSON(path, passphrase string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	plain, err := Decrypt(passphrase, raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plain, v); err != nil {
		return ErrInvalid
	}
	return nil
}

// WriteEncryptedJSON marshals and encrypts v, then writes it through a
// temp-file rename so a crash never leaves a half-written record behind.
func WriteEncryptedJSON(path, passphrase string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	encrypted, err := Encrypt(passphrase, payload)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".zpkey-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encrypted); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
