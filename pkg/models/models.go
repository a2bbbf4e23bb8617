package models

import (
	"encoding/json"
	"time"
)

// EncryptedEnvelope is the wire shape of an encrypted API response body.
// EncryptedKey carries the one-time symmetric session key wrapped under the
// client's public key; IV is the GCM nonce for Ciphertext. All three fields
// travel together or the body is plain JSON.
type EncryptedEnvelope struct {
	EncryptedKey []byte `json:"encryptedKey"`
	Ciphertext   []byte `json:"ciphertext"`
	IV           []byte `json:"iv"`
}

// Complete reports whether every envelope field is populated.
func (e EncryptedEnvelope) Complete() bool {
	return len(e.EncryptedKey) > 0 && len(e.Ciphertext) > 0 && len(e.IV) > 0
}

// StoredKeyRecord is the durable serialized form of one key pair slot.
// Both PEM halves must deserialize into a matching pair; a record with only
// one half is corrupt and treated as absent by the keystore.
type StoredKeyRecord struct {
	Slot          string    `json:"slot"`
	PublicKeyPEM  string    `json:"public_key_pem"`
	PrivateKeyPEM string    `json:"private_key_pem"`
	CreatedAt     time.Time `json:"created_at"`
}

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Denomination json.Number     `json:"denomination,omitempty"`
	Currency     string          `json:"currency,omitempty"`
	Price        json.Number     `json:"price,omitempty"`
	Available    bool            `json:"available,omitempty"`
	Raw          json.RawMessage `json:"-"`
}

type PaginationInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
}

// DecodeProducts maps the generic product items of a canonical response into
// typed Product values via a JSON round trip. Items that are not objects are
// skipped; unknown fields survive in Raw.
func DecodeProducts(items []any) ([]Product, error) {
	out := make([]Product, 0, len(items))
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			continue
		}
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		var p Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		p.Raw = raw
		out = append(out, p)
	}
	return out, nil
}

// DecodePagination maps a generic pagination object into PaginationInfo.
func DecodePagination(v any) (PaginationInfo, error) {
	var info PaginationInfo
	if v == nil {
		return info, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return PaginationInfo{}, err
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return PaginationInfo{}, err
	}
	return info, nil
}

// CanonicalResponse is the one normalized shape all decrypted or plain API
// payloads are reduced to before reaching business logic. The "success" key
// is always present after normalization.
type CanonicalResponse map[string]any

func (r CanonicalResponse) Success() bool {
	v, ok := r["success"]
	if !ok {
		return false
	}
	switch s := v.(type) {
	case bool:
		return s
	case string:
		return s != "false" && s != "0" && s != ""
	default:
		return true
	}
}

func (r CanonicalResponse) Products() []any {
	items, _ := r["products"].([]any)
	return items
}

func (r CanonicalResponse) Pagination() map[string]any {
	pg, _ := r["pagination"].(map[string]any)
	return pg
}
