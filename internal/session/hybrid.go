package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/metrics"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/platform/privacylog"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/pkg/models"
)

// Decryptor recovers plaintext from the three-field encrypted envelope: the
// session key is unwrapped with RSA-OAEP(SHA-256), then the body is opened
// with AES-GCM under that one-time key. The session key lives only for the
// duration of the call.
type Decryptor struct {
	log *slog.Logger
}

func NewDecryptor(log *slog.Logger) *Decryptor {
	return &Decryptor{log: privacylog.NewLogger(log)}
}

func (d *Decryptor) Decrypt(env models.EncryptedEnvelope, priv *rsa.PrivateKey) ([]byte, error) {
	if !env.Complete() {
		metrics.DecryptFailures.WithLabelValues("malformed_envelope").Inc()
		return nil, ErrMalformedEnvelope
	}
	if priv == nil {
		metrics.DecryptFailures.WithLabelValues("key_unwrap").Inc()
		return nil, fmt.Errorf("%w: no private key", ErrKeyUnwrapFailed)
	}

	sessionKey, err := rsa.DecryptOAEP(sha256.New(), nil, priv, env.EncryptedKey, nil)
	if err != nil {
		// The usual cause is a server that encrypted against a public key
		// this client no longer holds.
		metrics.DecryptFailures.WithLabelValues("key_unwrap").Inc()
		return nil, fmt.Errorf("%w: %v", ErrKeyUnwrapFailed, err)
	}
	defer zeroBytes(sessionKey)

	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		metrics.DecryptFailures.WithLabelValues("key_unwrap").Inc()
		return nil, fmt.Errorf("%w: unwrapped key is not a valid AES key", ErrKeyUnwrapFailed)
	}
	aead, err := newGCM(block, len(env.IV))
	if err != nil {
		metrics.DecryptFailures.WithLabelValues("malformed_envelope").Inc()
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	plaintext, err := aead.Open(nil, env.IV, env.Ciphertext, nil)
	if err != nil {
		metrics.DecryptFailures.WithLabelValues("authentication").Inc()
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	d.log.Debug("decrypted envelope", "body_bytes", len(plaintext))
	return plaintext, nil
}

func newGCM(block cipher.Block, ivLen int) (cipher.AEAD, error) {
	if ivLen == 12 {
		return cipher.NewGCM(block)
	}
	return cipher.NewGCMWithNonceSize(block, ivLen)
}

// DecodePlaintext interprets decrypted bytes as UTF-8 text. JSON decodes to
// its structure; a JSON string that itself holds JSON is unwrapped once
// (some server paths double-encode the body); anything else comes back as a
// raw string for the caller to parse.
func DecodePlaintext(plaintext []byte) (any, error) {
	if !utf8.Valid(plaintext) {
		metrics.DecryptFailures.WithLabelValues("text_decode").Inc()
		return nil, ErrTextDecodeFailed
	}
	text := string(plaintext)

	v, ok := decodeJSON(text)
	if !ok {
		return text, nil
	}
	if inner, isString := v.(string); isString {
		if nested, ok := decodeJSON(inner); ok {
			return nested, nil
		}
		return inner, nil
	}
	return v, nil
}

func decodeJSON(text string) (any, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return v, true
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
