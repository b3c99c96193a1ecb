package crypto

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/leaflock/leaflock/internal/syncer"
	"github.com/leaflock/leaflock/models"
)

// PayloadCrypter applies the keychain to payload batches: it is the
// encryption dependency the sync core consumes. Without an items key (no
// account yet, or before sign-in completes) it degrades to passthrough:
// local-storage encryption is preferred, not required.
type PayloadCrypter struct {
	keychain KeyChainService

	mu       sync.RWMutex
	itemsKey []byte
}

// NewPayloadCrypter builds a crypter with no items key installed.
func NewPayloadCrypter(keychain KeyChainService) *PayloadCrypter {
	return &PayloadCrypter{keychain: keychain}
}

// SetItemsKey installs the unwrapped items key, enabling encryption.
func (c *PayloadCrypter) SetItemsKey(key []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.itemsKey = append([]byte(nil), key...)
}

// ClearItemsKey drops the key material, for sign-out.
func (c *PayloadCrypter) ClearItemsKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.itemsKey = nil
}

func (c *PayloadCrypter) key() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.itemsKey
}

// EncryptPayloads returns encrypted copies of the given payloads prepared
// according to intent. Tombstones carry no body and pass through; file
// exports stay plaintext.
func (c *PayloadCrypter) EncryptPayloads(_ context.Context, payloads []models.Payload, intent syncer.EncryptionIntent) ([]models.Payload, error) {
	if intent == syncer.IntentFileExport {
		return append([]models.Payload(nil), payloads...), nil
	}

	key := c.key()
	if key == nil {
		// No account key yet: local storage prefers encryption but accepts
		// plaintext rather than blocking all persistence.
		return append([]models.Payload(nil), payloads...), nil
	}

	out := make([]models.Payload, 0, len(payloads))
	for _, payload := range payloads {
		if payload.Deleted || payload.Format != models.FormatDecrypted {
			out = append(out, payload)
			continue
		}
		ciphertext, err := c.keychain.EncryptData(payload.Content, key)
		if err != nil {
			return nil, fmt.Errorf("encrypt payload %s: %w", payload.UUID, err)
		}
		out = append(out, payload.WithCiphertext(ciphertext))
	}
	return out, nil
}

// DecryptPayloads returns decrypted copies of the given payloads. Payloads
// already decrypted or deleted pass through unchanged.
func (c *PayloadCrypter) DecryptPayloads(_ context.Context, payloads []models.Payload) ([]models.Payload, error) {
	out := make([]models.Payload, 0, len(payloads))
	for _, payload := range payloads {
		if payload.Format != models.FormatEncrypted || payload.Deleted {
			out = append(out, payload)
			continue
		}

		key := c.key()
		if key == nil {
			return nil, fmt.Errorf("decrypt payload %s: no items key installed", payload.UUID)
		}

		var content models.Content
		if err := c.keychain.DecryptData(payload.Ciphertext, key, &content); err != nil {
			return nil, fmt.Errorf("decrypt payload %s: %w", payload.UUID, err)
		}
		out = append(out, payload.WithContent(content))
	}
	return out, nil
}

// ComputeIntegrityHash computes the structural hash the server's integrity
// reports are compared against: SHA-256 over the sorted uuid:updated_at
// lines of all non-deleted payloads. Content never participates, so the
// hash is computable on both sides without decrypting anything.
func (c *PayloadCrypter) ComputeIntegrityHash(payloads []models.Payload) (string, error) {
	lines := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		if payload.Deleted {
			continue
		}
		lines = append(lines, payload.UUID+":"+strconv.FormatInt(payload.UpdatedAt.UnixMilli(), 10))
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
