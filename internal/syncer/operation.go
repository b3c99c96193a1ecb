package syncer

import (
	"context"

	"github.com/leaflock/leaflock/models"
)

// AccountSyncOperation is one logical online round-trip: it uploads the
// dirty batch (in chunks of upLimit), reports upload progress, and hands
// every server response to the owner's receiver. There is no mid-flight
// cancellation beyond context expiry; a dispatched operation runs to
// completion or failure.
type AccountSyncOperation struct {
	transport TransportService

	payloads       []models.Payload
	checkIntegrity bool
	syncToken      string
	cursorToken    string
	upLimit        int
	downLimit      int

	onResponse     func(ctx context.Context, response models.SyncResponse) error
	onUploadStatus func(completed, total int)

	savedOrSaving []models.Payload
}

func newAccountSyncOperation(
	transport TransportService,
	payloads []models.Payload,
	checkIntegrity bool,
	syncToken, cursorToken string,
	upLimit, downLimit int,
	onResponse func(ctx context.Context, response models.SyncResponse) error,
	onUploadStatus func(completed, total int),
) *AccountSyncOperation {
	return &AccountSyncOperation{
		transport:      transport,
		payloads:       payloads,
		checkIntegrity: checkIntegrity,
		syncToken:      syncToken,
		cursorToken:    cursorToken,
		upLimit:        upLimit,
		downLimit:      downLimit,
		onResponse:     onResponse,
		onUploadStatus: onUploadStatus,
	}
}

// PayloadsSavedOrSaving returns the payloads already submitted to the
// server, including the batch currently in flight. The response resolver
// needs them to distinguish in-flight saves from fresh remote changes.
func (o *AccountSyncOperation) PayloadsSavedOrSaving() []models.Payload {
	return append([]models.Payload(nil), o.savedOrSaving...)
}

// Run executes the round-trip. Transport failures are converted into error
// responses and delivered through the receiver; Run itself returns an error
// only when a receiver does.
func (o *AccountSyncOperation) Run(ctx context.Context) error {
	total := len(o.payloads)
	sent := 0

	// Always at least one request: a sync with nothing to upload still
	// pulls down changes from other devices.
	for {
		batch := o.payloads[sent:min(sent+o.upLimit, total)]
		lastBatch := sent+len(batch) >= total

		o.savedOrSaving = append(o.savedOrSaving, batch...)

		req := models.SyncRequest{
			Items:            batch,
			SyncToken:        o.syncToken,
			CursorToken:      o.cursorToken,
			Limit:            o.downLimit,
			ComputeIntegrity: o.checkIntegrity && lastBatch,
		}

		resp, err := o.transport.Sync(ctx, req)
		if err != nil {
			resp = models.SyncResponse{ErrorMessage: err.Error()}
		}
		resp.CheckIntegrity = req.ComputeIntegrity

		sent += len(batch)
		if o.onUploadStatus != nil {
			o.onUploadStatus(sent, total)
		}

		if handlerErr := o.onResponse(ctx, resp); handlerErr != nil {
			return handlerErr
		}
		if resp.HasError() || err != nil {
			return nil
		}

		// Later batches continue from the server's new position.
		o.syncToken = resp.SyncToken
		o.cursorToken = ""

		if lastBatch {
			return nil
		}
	}
}

// OfflineSyncOperation is the offline round-trip: without a server session
// the dirty batch is simply acknowledged back to the owner, which persists
// it locally and maps it as saved.
type OfflineSyncOperation struct {
	payloads   []models.Payload
	onResponse func(ctx context.Context, payloads []models.Payload) error
}

func newOfflineSyncOperation(
	payloads []models.Payload,
	onResponse func(ctx context.Context, payloads []models.Payload) error,
) *OfflineSyncOperation {
	return &OfflineSyncOperation{payloads: payloads, onResponse: onResponse}
}

// Run delivers the payloads to the receiver.
func (o *OfflineSyncOperation) Run(ctx context.Context) error {
	return o.onResponse(ctx, o.payloads)
}
