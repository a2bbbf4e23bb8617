package session

import (
	"crypto/x509"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a short stable identifier for the public half, safe to
// put in logs and metrics instead of key material.
func Fingerprint(kp *KeyPair) string {
	if kp == nil || kp.Private == nil {
		return ""
	}
	der, err := x509.MarshalPKIXPublicKey(&kp.Private.PublicKey)
	if err != nil {
		return ""
	}
	h := blake2b.Sum256(der)
	return "zpk1" + base58.Encode(h[:])
}
