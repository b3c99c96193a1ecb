package syncer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflock/leaflock/models"
)

// transportFunc adapts a function to TransportService without mockgen,
// avoiding an import cycle with the generated mock package.
type transportFunc func(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)

func (f transportFunc) Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	return f(ctx, req)
}

// passthroughCrypto satisfies EncryptionService for tests that only exercise
// control flow.
type passthroughCrypto struct{}

func (passthroughCrypto) EncryptPayloads(_ context.Context, payloads []models.Payload, _ EncryptionIntent) ([]models.Payload, error) {
	return payloads, nil
}

func (passthroughCrypto) DecryptPayloads(_ context.Context, payloads []models.Payload) ([]models.Payload, error) {
	return payloads, nil
}

func (passthroughCrypto) ComputeIntegrityHash([]models.Payload) (string, error) {
	return "", nil
}

func numberedPayloads(n int) []models.Payload {
	payloads := make([]models.Payload, n)
	for i := range payloads {
		payloads[i] = models.Payload{
			UUID:        fmt.Sprintf("p-%d", i),
			ContentType: models.ContentTypeNote,
		}
	}
	return payloads
}

func TestAccountSyncOperation_EmptyBatchStillSyncsOnce(t *testing.T) {
	var requests []models.SyncRequest
	transport := transportFunc(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
		requests = append(requests, req)
		return models.SyncResponse{SyncToken: "t"}, nil
	})

	var responses int
	op := newAccountSyncOperation(transport, nil, false, "prev", "", 10, 100,
		func(context.Context, models.SyncResponse) error {
			responses++
			return nil
		}, nil)

	require.NoError(t, op.Run(context.Background()))
	require.Len(t, requests, 1, "a sync with nothing to upload still pulls down changes")
	assert.Empty(t, requests[0].Items)
	assert.Equal(t, "prev", requests[0].SyncToken)
	assert.Equal(t, 1, responses)
}

func TestAccountSyncOperation_UploadsInBatches(t *testing.T) {
	var requests []models.SyncRequest
	transport := transportFunc(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
		requests = append(requests, req)
		return models.SyncResponse{SyncToken: fmt.Sprintf("t-%d", len(requests))}, nil
	})

	var progress [][2]int
	op := newAccountSyncOperation(transport, numberedPayloads(25), true, "", "", 10, 100,
		func(context.Context, models.SyncResponse) error { return nil },
		func(completed, total int) {
			progress = append(progress, [2]int{completed, total})
		})

	require.NoError(t, op.Run(context.Background()))

	require.Len(t, requests, 3)
	assert.Len(t, requests[0].Items, 10)
	assert.Len(t, requests[1].Items, 10)
	assert.Len(t, requests[2].Items, 5)

	// Later batches continue from the position the server handed back.
	assert.Equal(t, "t-1", requests[1].SyncToken)
	assert.Equal(t, "t-2", requests[2].SyncToken)

	// Integrity is requested on the final batch only.
	assert.False(t, requests[0].ComputeIntegrity)
	assert.False(t, requests[1].ComputeIntegrity)
	assert.True(t, requests[2].ComputeIntegrity)

	assert.Equal(t, [][2]int{{10, 25}, {20, 25}, {25, 25}}, progress)
	assert.Len(t, op.PayloadsSavedOrSaving(), 25)
}

func TestAccountSyncOperation_TransportFailureBecomesErrorResponse(t *testing.T) {
	transport := transportFunc(func(context.Context, models.SyncRequest) (models.SyncResponse, error) {
		return models.SyncResponse{}, fmt.Errorf("connection refused")
	})

	var received models.SyncResponse
	op := newAccountSyncOperation(transport, numberedPayloads(3), false, "", "", 10, 100,
		func(_ context.Context, resp models.SyncResponse) error {
			received = resp
			return nil
		}, nil)

	require.NoError(t, op.Run(context.Background()),
		"a network failure is delivered through the receiver, not returned")
	assert.True(t, received.HasError())
	assert.Contains(t, received.ErrorMessage, "connection refused")
}

func TestAccountSyncOperation_StopsAfterErrorResponse(t *testing.T) {
	var calls int
	transport := transportFunc(func(context.Context, models.SyncRequest) (models.SyncResponse, error) {
		calls++
		return models.SyncResponse{Status: 500, ErrorMessage: "boom"}, nil
	})

	op := newAccountSyncOperation(transport, numberedPayloads(25), false, "", "", 10, 100,
		func(context.Context, models.SyncResponse) error { return nil }, nil)

	require.NoError(t, op.Run(context.Background()))
	assert.Equal(t, 1, calls, "remaining batches are abandoned after an error response")
}

func TestOfflineSyncOperation_DeliversPayloads(t *testing.T) {
	payloads := numberedPayloads(2)
	var received []models.Payload
	op := newOfflineSyncOperation(payloads, func(_ context.Context, p []models.Payload) error {
		received = p
		return nil
	})

	require.NoError(t, op.Run(context.Background()))
	assert.Equal(t, payloads, received)
}

func TestDownloadAllPayloads_WalksPagination(t *testing.T) {
	pages := map[string][]models.Payload{
		"":    numberedPayloads(2)[:1],
		"c-1": numberedPayloads(2)[1:],
	}
	cursors := map[string]string{"": "c-1", "c-1": ""}

	var seen []string
	transport := transportFunc(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
		seen = append(seen, req.CursorToken)
		assert.Empty(t, req.SyncToken, "the walk starts from scratch, not the client's position")
		return models.SyncResponse{
			RetrievedItems: pages[req.CursorToken],
			CursorToken:    cursors[req.CursorToken],
		}, nil
	})

	all, err := DownloadAllPayloads(context.Background(), transport, passthroughCrypto{}, 50)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, []string{"", "c-1"}, seen)
}

func TestDownloadAllPayloads_ServerErrorAborts(t *testing.T) {
	transport := transportFunc(func(context.Context, models.SyncRequest) (models.SyncResponse, error) {
		return models.SyncResponse{Status: 500, ErrorMessage: "unavailable"}, nil
	})

	_, err := DownloadAllPayloads(context.Background(), transport, passthroughCrypto{}, 50)
	require.Error(t, err)
}

func TestSyncState_DiscordanceAccumulatesAndResets(t *testing.T) {
	var events []stateEvent
	state := NewSyncState(3, func(e stateEvent) { events = append(events, e) })

	state.SetIntegrityHashes("a", "b")
	state.SetIntegrityHashes("a", "b")
	assert.Equal(t, 2, state.Discordance())
	assert.False(t, state.IsOutOfSync())

	state.SetIntegrityHashes("a", "b")
	assert.True(t, state.IsOutOfSync())
	assert.Contains(t, events, stateEventEnterOutOfSync)

	state.SetIntegrityHashes("same", "same")
	assert.False(t, state.IsOutOfSync())
	assert.Zero(t, state.Discordance())
	assert.Contains(t, events, stateEventExitOutOfSync)
}

func TestSyncState_EmptyClientHashNeverMatches(t *testing.T) {
	state := NewSyncState(3, nil)
	state.SetIntegrityHashes("", "")
	assert.Equal(t, 1, state.Discordance())
}

func TestSyncOpStatus_Lifecycle(t *testing.T) {
	status := NewSyncOpStatus()

	status.SetDidBegin()
	assert.True(t, status.InProgress())
	status.SetUploadStatus(5, 10)
	completed, total := status.UploadStatus()
	assert.Equal(t, 5, completed)
	assert.Equal(t, 10, total)

	status.SetDidEnd()
	assert.False(t, status.InProgress())
	completed, total = status.UploadStatus()
	assert.Zero(t, completed)
	assert.Zero(t, total)

	status.SetError(fmt.Errorf("boom"))
	require.Error(t, status.Error())
	status.ClearError()
	assert.NoError(t, status.Error())
}

func TestSortPayloadsByRecentAndContentPriority(t *testing.T) {
	older := numberedPayloads(1)[0]
	older.UUID = "old-note"

	newer := models.Payload{UUID: "new-note", ContentType: models.ContentTypeNote}
	newer.UpdatedAt = older.UpdatedAt.AddDate(0, 1, 0)

	key := models.Payload{UUID: "key", ContentType: models.ContentTypeItemsKey}

	sorted := sortPayloadsByRecentAndContentPriority(
		[]models.Payload{older, newer, key},
		[]models.ContentType{models.ContentTypeItemsKey},
	)

	require.Len(t, sorted, 3)
	assert.Equal(t, "key", sorted[0].UUID)
	assert.Equal(t, "new-note", sorted[1].UUID)
	assert.Equal(t, "old-note", sorted[2].UUID)
}
