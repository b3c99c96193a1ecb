package models

// Conflict types reported by the server inside a SyncResponse.
const (
	// ConflictTypeDataConflict means the server rejected a save because its
	// copy of the item changed since the client last saw it. ServerItem
	// carries the server's copy.
	ConflictTypeDataConflict = "sync_conflict"

	// ConflictTypeUUIDConflict means the uuid is already taken by another
	// account's record. UnsavedItem carries the client item that could not
	// be saved.
	ConflictTypeUUIDConflict = "uuid_conflict"
)

// SyncRequest is the body submitted to the sync endpoint: the encrypted
// payload batch plus the client's position in the server's change feed.
type SyncRequest struct {
	// Items is the batch of encrypted payloads to save.
	Items []Payload `json:"items"`

	// SyncToken is the cursor of the last fully completed sync.
	SyncToken string `json:"sync_token,omitempty"`

	// CursorToken is the pagination cursor inside a multi-page sync.
	CursorToken string `json:"cursor_token,omitempty"`

	// Limit caps how many changed items the server returns per page.
	Limit int `json:"limit,omitempty"`

	// ComputeIntegrity asks the server to include its integrity hash in the
	// response so the client can verify convergence.
	ComputeIntegrity bool `json:"compute_integrity,omitempty"`
}

// SyncConflict is one server-reported conflict entry.
type SyncConflict struct {
	// Type is one of the ConflictType constants.
	Type string `json:"type"`

	// ServerItem is the server's copy, set for data conflicts.
	ServerItem *Payload `json:"server_item,omitempty"`

	// UnsavedItem is the rejected client copy, set for uuid conflicts.
	UnsavedItem *Payload `json:"unsaved_item,omitempty"`
}

// SyncResponse is the server's answer to one sync round-trip.
type SyncResponse struct {
	// RetrievedItems are changes made by other devices since SyncToken.
	RetrievedItems []Payload `json:"retrieved_items"`

	// SavedItems acknowledge the items from the request, with
	// server-assigned timestamps.
	SavedItems []Payload `json:"saved_items"`

	// Conflicts lists items the server refused to save as-is.
	Conflicts []SyncConflict `json:"conflicts,omitempty"`

	// SyncToken is the new change-feed cursor to persist.
	SyncToken string `json:"sync_token"`

	// CursorToken is non-empty when more pages are pending.
	CursorToken string `json:"cursor_token,omitempty"`

	// IntegrityHash is the server's structural hash, present only when the
	// request set ComputeIntegrity.
	IntegrityHash string `json:"integrity_hash,omitempty"`

	// CheckIntegrity records whether integrity checking was requested.
	CheckIntegrity bool `json:"-"`

	// Status is the transport status code the response arrived with.
	Status int `json:"-"`

	// ErrorMessage is set when the server reports a failure.
	ErrorMessage string `json:"error,omitempty"`
}

// HasError reports whether the response describes a failed round-trip.
func (r SyncResponse) HasError() bool {
	return r.ErrorMessage != "" || r.Status >= 400
}

// AllProcessedPayloads returns every payload the response touched:
// retrieved, saved, and both sides of each conflict entry.
func (r SyncResponse) AllProcessedPayloads() []Payload {
	out := make([]Payload, 0, len(r.RetrievedItems)+len(r.SavedItems)+len(r.Conflicts))
	out = append(out, r.RetrievedItems...)
	out = append(out, r.SavedItems...)
	for _, c := range r.Conflicts {
		if c.ServerItem != nil {
			out = append(out, *c.ServerItem)
		}
		if c.UnsavedItem != nil {
			out = append(out, *c.UnsavedItem)
		}
	}
	return out
}

// NumberOfItemsInvolved counts the payloads this round-trip touched; the
// orchestrator compares it against the major-change threshold.
func (r SyncResponse) NumberOfItemsInvolved() int {
	return len(r.AllProcessedPayloads())
}
