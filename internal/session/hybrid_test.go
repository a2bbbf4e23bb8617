package session

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/Amarnathp8247/zpay-corp-admin-sub001/pkg/models"
)

// sealEnvelope plays the server side: wrap a fresh session key under pub,
// seal the payload with AES-256-GCM.
func sealEnvelope(t *testing.T, pub *rsa.PublicKey, plaintext []byte) models.EncryptedEnvelope {
	t.Helper()
	sessionKey := make([]byte, 32)
	if _, err := rand.Read(sessionKey); err != nil {
		t.Fatalf("session key: %v", err)
	}
	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, sessionKey, nil)
	if err != nil {
		t.Fatalf("wrap session key: %v", err)
	}
	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		t.Fatalf("aes cipher: %v", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		t.Fatalf("gcm: %v", err)
	}
	iv := make([]byte, aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		t.Fatalf("iv: %v", err)
	}
	return models.EncryptedEnvelope{
		EncryptedKey: wrapped,
		Ciphertext:   aead.Seal(nil, iv, plaintext, nil),
		IV:           iv,
	}
}

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return priv
}

func TestDecryptRoundTrip(t *testing.T) {
	priv := testKey(t)
	payload := []byte(`{"success":true,"products":[{"id":"p1"}]}`)
	env := sealEnvelope(t, &priv.PublicKey, payload)

	got, err := NewDecryptor(nil).Decrypt(env, priv)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("plaintext mismatch: %q", got)
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	priv := testKey(t)
	env := sealEnvelope(t, &priv.PublicKey, []byte("payload"))
	env.Ciphertext[0] ^= 0x01

	_, err := NewDecryptor(nil).Decrypt(env, priv)
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestDecryptTamperedIV(t *testing.T) {
	priv := testKey(t)
	env := sealEnvelope(t, &priv.PublicKey, []byte("payload"))
	env.IV[len(env.IV)-1] ^= 0x80

	_, err := NewDecryptor(nil).Decrypt(env, priv)
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestDecryptWrongPrivateKey(t *testing.T) {
	priv := testKey(t)
	other := testKey(t)
	env := sealEnvelope(t, &priv.PublicKey, []byte("payload"))

	_, err := NewDecryptor(nil).Decrypt(env, other)
	if !errors.Is(err, ErrKeyUnwrapFailed) {
		t.Fatalf("expected ErrKeyUnwrapFailed, got %v", err)
	}
}

func TestDecryptIncompleteEnvelope(t *testing.T) {
	priv := testKey(t)
	env := sealEnvelope(t, &priv.PublicKey, []byte("payload"))
	env.IV = nil

	_, err := NewDecryptor(nil).Decrypt(env, priv)
	if !errors.Is(err, ErrMalformedEnvelope) {
		t.Fatalf("expected ErrMalformedEnvelope, got %v", err)
	}
}

func TestDecodePlaintextJSON(t *testing.T) {
	v, err := DecodePlaintext([]byte(`{"success":true}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	obj, ok := v.(map[string]any)
	if !ok || obj["success"] != true {
		t.Fatalf("unexpected value: %#v", v)
	}
}

func TestDecodePlaintextDoubleEncoded(t *testing.T) {
	v, err := DecodePlaintext([]byte(`"{\"success\":true}"`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	obj, ok := v.(map[string]any)
	if !ok || obj["success"] != true {
		t.Fatalf("expected inner object, got %#v", v)
	}
}

func TestDecodePlaintextRawString(t *testing.T) {
	v, err := DecodePlaintext([]byte("plain text, not json"))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if v != "plain text, not json" {
		t.Fatalf("unexpected value: %#v", v)
	}
}

func TestDecodePlaintextInvalidUTF8(t *testing.T) {
	_, err := DecodePlaintext([]byte{0xff, 0xfe, 0xfd})
	if !errors.Is(err, ErrTextDecodeFailed) {
		t.Fatalf("expected ErrTextDecodeFailed, got %v", err)
	}
}
