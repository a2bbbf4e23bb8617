package keystore

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var ErrInvalidMnemonic = errors.New("invalid recovery mnemonic")

// NewPassphrase generates a fresh 256-bit store passphrase together with the
// BIP39 mnemonic that re-derives it. The mnemonic is the user-facing backup;
// the hex passphrase is what FileStore takes.
func NewPassphrase() (passphrase, mnemonic string, err error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", "", err
	}
	mnemonic, err = bip39.NewMnemonic(entropy)
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(entropy), mnemonic, nil
}

// PassphraseFromMnemonic re-derives the store passphrase from a backup
// mnemonic after reinstall.
func PassphraseFromMnemonic(mnemonic string) (string, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", ErrInvalidMnemonic
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return "", ErrInvalidMnemonic
	}
	return hex.EncodeToString(entropy), nil
}

// ValidateMnemonic reports whether a backup mnemonic is well formed.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(strings.TrimSpace(mnemonic))
}
