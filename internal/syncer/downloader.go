package syncer

import (
	"context"
	"fmt"

	"github.com/leaflock/leaflock/models"
)

// DownloadAllPayloads fetches the complete remote payload set by walking the
// sync endpoint from an empty sync token, following pagination cursors, and
// decrypting each page. Used by out-of-sync recovery; it carries no client
// state and does not touch the sync position tokens.
func DownloadAllPayloads(
	ctx context.Context,
	transport TransportService,
	encryption EncryptionService,
	pageLimit int,
) ([]models.Payload, error) {
	var all []models.Payload
	cursor := ""

	for {
		resp, err := transport.Sync(ctx, models.SyncRequest{
			CursorToken: cursor,
			Limit:       pageLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("download all payloads: %w", err)
		}
		if resp.HasError() {
			return nil, fmt.Errorf("download all payloads: server error: %s", resp.ErrorMessage)
		}

		decrypted, err := encryption.DecryptPayloads(ctx, resp.RetrievedItems)
		if err != nil {
			return nil, fmt.Errorf("download all payloads: decrypt page: %w", err)
		}
		all = append(all, decrypted...)

		cursor = resp.CursorToken
		if cursor == "" {
			return all, nil
		}
	}
}
