// Package apiclient is the thin transport wrapper around the session
// protocol: it advertises the client public key on outbound requests and
// transparently decrypts and normalizes every response. Business rules for
// products, orders and wallets live with the callers.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/config"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/platform/privacylog"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/platform/ratelimiter"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/response"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/session"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/pkg/models"
)

const publicKeyField = "clientPublicKey"

var (
	ErrRateLimited = errors.New("request rate limited")
	// ErrUnreadableResponse wraps decrypt failures that survived the one
	// reload-based recovery attempt. Distinct from a normalized
	// success:false payload, which is an application-level error.
	ErrUnreadableResponse = errors.New("could not read server response")
)

type Client struct {
	http    *http.Client
	baseURL string
	keys    *session.Manager
	dec     *session.Decryptor
	limiter *ratelimiter.MapLimiter
	log     *slog.Logger
}

func New(cfg config.APIConfig, keys *session.Manager, log *slog.Logger) *Client {
	log = privacylog.NewLogger(log)
	return &Client{
		http:    &http.Client{Timeout: cfg.RequestTimeout()},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		keys:    keys,
		dec:     session.NewDecryptor(log),
		limiter: ratelimiter.New(cfg.RequestsPerSecond, cfg.Burst, 10*time.Minute),
		log:     log,
	}
}

// Post sends a JSON body with the current public key attached and returns
// the canonical response. Encrypted bodies are decrypted transparently; on a
// session-key unwrap failure the key pair is reloaded from storage and the
// same bytes are decrypted once more (recovery only, the request is never
// re-sent with a different key).
func (c *Client) Post(ctx context.Context, path string, body map[string]any) (models.CanonicalResponse, error) {
	if !c.limiter.Allow(path, time.Now()) {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, path)
	}

	kp, err := c.keys.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	pub, err := session.ExportPublicKey(kp)
	if err != nil {
		return nil, err
	}

	payload := make(map[string]any, len(body)+1)
	for k, v := range body {
		payload[k] = v
	}
	payload[publicKeyField] = pub

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return c.handleBody(ctx, kp, respBody)
}

func (c *Client) handleBody(ctx context.Context, kp *session.KeyPair, body []byte) (models.CanonicalResponse, error) {
	decoded, ok := decodeJSONBody(body)
	if !ok {
		return nil, fmt.Errorf("%w: response is not JSON", ErrUnreadableResponse)
	}

	// Servers may report pre-encryption errors in the clear; an explicit
	// failure short-circuits any envelope handling.
	if obj, isObj := decoded.(map[string]any); isObj && response.DeclaresFailure(obj) {
		return response.Normalize(obj), nil
	}

	var env models.EncryptedEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Complete() {
		plaintext, err := c.decryptWithRecovery(ctx, kp, env)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableResponse, err)
		}
		v, err := session.DecodePlaintext(plaintext)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableResponse, err)
		}
		return response.Normalize(v), nil
	}

	return response.Normalize(decoded), nil
}

// decryptWithRecovery retries a failed key unwrap exactly once after
// reloading the pair from storage, for the restart-lost-memory case. It
// never re-advertises a key or re-sends the request; that policy belongs to
// callers.
func (c *Client) decryptWithRecovery(ctx context.Context, kp *session.KeyPair, env models.EncryptedEnvelope) ([]byte, error) {
	plaintext, err := c.dec.Decrypt(env, kp.Private)
	if err == nil || !errors.Is(err, session.ErrKeyUnwrapFailed) {
		return plaintext, err
	}

	reloaded, reloadErr := c.keys.ReloadFromStore(ctx)
	if reloadErr != nil {
		return nil, err
	}
	if session.Fingerprint(reloaded) == session.Fingerprint(kp) {
		return nil, err
	}
	c.log.Debug("retrying decrypt with reloaded key pair", "key_fingerprint", session.Fingerprint(reloaded))
	return c.dec.Decrypt(env, reloaded.Private)
}

func decodeJSONBody(body []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}
