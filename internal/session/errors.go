package session

import "errors"

var (
	// Key lifecycle failures. Only ErrGenerationFailed is fatal; the other
	// two are recovered inside the manager and reach callers only through
	// ReloadFromStore.
	ErrGenerationFailed = errors.New("key pair generation failed")
	ErrNoStoredKey      = errors.New("no stored key pair")
	ErrCorruptStoredKey = errors.New("stored key pair is corrupt")

	// ErrNilKeyPair reports caller misuse, not a recoverable store state.
	ErrNilKeyPair = errors.New("nil key pair")

	// Envelope decryption failures.
	ErrKeyUnwrapFailed      = errors.New("session key unwrap failed")
	ErrAuthenticationFailed = errors.New("ciphertext authentication failed")
	ErrMalformedEnvelope    = errors.New("malformed encrypted envelope")
	ErrTextDecodeFailed     = errors.New("plaintext is not valid utf-8")
)
