package crypto

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflock/leaflock/internal/syncer"
	"github.com/leaflock/leaflock/models"
)

func newTestCrypter(t *testing.T, withKey bool) *PayloadCrypter {
	t.Helper()
	c := NewPayloadCrypter(NewKeyChainService())
	if withKey {
		c.SetItemsKey(bytes.Repeat([]byte{0x42}, 32))
	}
	return c
}

func decryptedNote(uuid, title string) models.Payload {
	return models.Payload{
		UUID:        uuid,
		ContentType: models.ContentTypeNote,
		Content:     models.Content{Fields: map[string]any{"title": title}},
		Format:      models.FormatDecrypted,
	}
}

func TestPayloadCrypter_EncryptDecryptRoundTrip(t *testing.T) {
	c := newTestCrypter(t, true)
	ctx := context.Background()

	original := decryptedNote("n-1", "secret")
	encrypted, err := c.EncryptPayloads(ctx, []models.Payload{original}, syncer.IntentSync)
	require.NoError(t, err)
	require.Len(t, encrypted, 1)

	assert.Equal(t, models.FormatEncrypted, encrypted[0].Format)
	assert.NotEmpty(t, encrypted[0].Ciphertext)
	assert.Empty(t, encrypted[0].Content.Fields, "plaintext must not travel with ciphertext")

	decrypted, err := c.DecryptPayloads(ctx, encrypted)
	require.NoError(t, err)
	require.Len(t, decrypted, 1)
	assert.Equal(t, models.FormatDecrypted, decrypted[0].Format)
	assert.Equal(t, "secret", decrypted[0].Content.Fields["title"])
}

func TestPayloadCrypter_NoKeyFallsBackToPlaintext(t *testing.T) {
	c := newTestCrypter(t, false)

	original := decryptedNote("n-1", "offline")
	out, err := c.EncryptPayloads(context.Background(), []models.Payload{original},
		syncer.IntentLocalStoragePreferEncrypted)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.FormatDecrypted, out[0].Format)
	assert.Equal(t, "offline", out[0].Content.Fields["title"])
}

func TestPayloadCrypter_FileExportStaysPlaintext(t *testing.T) {
	c := newTestCrypter(t, true)

	out, err := c.EncryptPayloads(context.Background(),
		[]models.Payload{decryptedNote("n-1", "export me")}, syncer.IntentFileExport)
	require.NoError(t, err)
	assert.Equal(t, models.FormatDecrypted, out[0].Format)
}

func TestPayloadCrypter_TombstonesPassThrough(t *testing.T) {
	c := newTestCrypter(t, true)

	tombstone := models.Payload{UUID: "n-1", Deleted: true, Format: models.FormatDeleted}
	out, err := c.EncryptPayloads(context.Background(), []models.Payload{tombstone}, syncer.IntentSync)
	require.NoError(t, err)
	assert.Equal(t, tombstone, out[0])
}

func TestPayloadCrypter_DecryptWithoutKeyFails(t *testing.T) {
	withKey := newTestCrypter(t, true)
	encrypted, err := withKey.EncryptPayloads(context.Background(),
		[]models.Payload{decryptedNote("n-1", "secret")}, syncer.IntentSync)
	require.NoError(t, err)

	withoutKey := newTestCrypter(t, false)
	_, err = withoutKey.DecryptPayloads(context.Background(), encrypted)
	require.Error(t, err)
}

func TestPayloadCrypter_ClearItemsKeyDisablesDecryption(t *testing.T) {
	c := newTestCrypter(t, true)
	encrypted, err := c.EncryptPayloads(context.Background(),
		[]models.Payload{decryptedNote("n-1", "secret")}, syncer.IntentSync)
	require.NoError(t, err)

	c.ClearItemsKey()
	_, err = c.DecryptPayloads(context.Background(), encrypted)
	require.Error(t, err)
}

func TestComputeIntegrityHash_OrderInsensitive(t *testing.T) {
	c := newTestCrypter(t, true)

	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	a := models.Payload{UUID: "a", UpdatedAt: t1}
	b := models.Payload{UUID: "b", UpdatedAt: t2}

	h1, err := c.ComputeIntegrityHash([]models.Payload{a, b})
	require.NoError(t, err)
	h2, err := c.ComputeIntegrityHash([]models.Payload{b, a})
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestComputeIntegrityHash_IgnoresTombstonesAndContent(t *testing.T) {
	c := newTestCrypter(t, true)

	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := models.Payload{UUID: "a", UpdatedAt: t1}
	deleted := models.Payload{UUID: "gone", UpdatedAt: t1, Deleted: true}

	withTombstone, err := c.ComputeIntegrityHash([]models.Payload{a, deleted})
	require.NoError(t, err)
	withoutTombstone, err := c.ComputeIntegrityHash([]models.Payload{a})
	require.NoError(t, err)
	assert.Equal(t, withoutTombstone, withTombstone)

	richer := a
	richer.Content = models.Content{Fields: map[string]any{"title": "x"}}
	withContent, err := c.ComputeIntegrityHash([]models.Payload{richer})
	require.NoError(t, err)
	assert.Equal(t, withoutTombstone, withContent, "content never participates in the hash")
}

func TestComputeIntegrityHash_SensitiveToUpdatedAt(t *testing.T) {
	c := newTestCrypter(t, true)

	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := models.Payload{UUID: "a", UpdatedAt: t1}
	shifted := a
	shifted.UpdatedAt = t1.Add(time.Second)

	h1, err := c.ComputeIntegrityHash([]models.Payload{a})
	require.NoError(t, err)
	h2, err := c.ComputeIntegrityHash([]models.Payload{shifted})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
