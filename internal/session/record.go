package session

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/Amarnathp8247/zpay-corp-admin-sub001/pkg/models"
)

const (
	pemTypePublic  = "PUBLIC KEY"
	pemTypePrivate = "PRIVATE KEY"
)

// KeyPair is the in-process asymmetric pair for one storage slot. It is
// read-only once adopted; replacement happens only through Clear followed by
// EnsureReady.
type KeyPair struct {
	Private   *rsa.PrivateKey
	CreatedAt time.Time
}

func encodeRecord(slot string, kp *KeyPair) (models.StoredKeyRecord, error) {
	pubDER, err := x509.MarshalPKIXPublicKey(&kp.Private.PublicKey)
	if err != nil {
		return models.StoredKeyRecord{}, err
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(kp.Private)
	if err != nil {
		return models.StoredKeyRecord{}, err
	}
	return models.StoredKeyRecord{
		Slot:          slot,
		PublicKeyPEM:  string(pem.EncodeToMemory(&pem.Block{Type: pemTypePublic, Bytes: pubDER})),
		PrivateKeyPEM: string(pem.EncodeToMemory(&pem.Block{Type: pemTypePrivate, Bytes: privDER})),
		CreatedAt:     kp.CreatedAt,
	}, nil
}

// decodeRecord parses both PEM halves and verifies they belong to the same
// pair. Mismatched or unparsable halves yield ErrCorruptStoredKey.
func decodeRecord(rec models.StoredKeyRecord) (*KeyPair, error) {
	privBlock, _ := pem.Decode([]byte(rec.PrivateKeyPEM))
	if privBlock == nil || privBlock.Type != pemTypePrivate {
		return nil, fmt.Errorf("%w: private half is not %s PEM", ErrCorruptStoredKey, pemTypePrivate)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(privBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStoredKey, err)
	}
	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private half is not RSA", ErrCorruptStoredKey)
	}

	pubBlock, _ := pem.Decode([]byte(rec.PublicKeyPEM))
	if pubBlock == nil || pubBlock.Type != pemTypePublic {
		return nil, fmt.Errorf("%w: public half is not %s PEM", ErrCorruptStoredKey, pemTypePublic)
	}
	parsedPub, err := x509.ParsePKIXPublicKey(pubBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStoredKey, err)
	}
	pub, ok := parsedPub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: public half is not RSA", ErrCorruptStoredKey)
	}
	if !priv.PublicKey.Equal(pub) {
		return nil, fmt.Errorf("%w: key halves do not match", ErrCorruptStoredKey)
	}

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return &KeyPair{Private: priv, CreatedAt: created}, nil
}

// ExportPublicKey serializes the public half in the SPKI PEM interchange
// form advertised to the server as clientPublicKey. Pure, no side effects.
func ExportPublicKey(kp *KeyPair) (string, error) {
	if kp == nil || kp.Private == nil {
		return "", ErrNilKeyPair
	}
	der, err := x509.MarshalPKIXPublicKey(&kp.Private.PublicKey)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePublic, Bytes: der})), nil
}
