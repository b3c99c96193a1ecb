package models

// Source tags a payload or collection with its provenance. Deltas and the
// item mapper use it to decide how much authority incoming data carries.
type Source string

const (
	// SourceLocalRetrieved marks payloads read from the local database.
	SourceLocalRetrieved Source = "local_retrieved"

	// SourceLocalSaved marks payloads acknowledged by an offline save.
	SourceLocalSaved Source = "local_saved"

	// SourceLocalDirtied marks payloads mutated by the application.
	SourceLocalDirtied Source = "local_dirtied"

	// SourceRemoteRetrieved marks payloads downloaded from the server.
	SourceRemoteRetrieved Source = "remote_retrieved"

	// SourceRemoteSaved marks payloads the server acknowledged as saved.
	SourceRemoteSaved Source = "remote_saved"

	// SourceFileImport marks payloads merged in from an external file.
	SourceFileImport Source = "file_import"

	// SourcePreSyncSave marks payloads persisted by the crash-safety
	// checkpoint taken before a sync request is dispatched.
	SourcePreSyncSave Source = "pre_sync_save"

	// SourceConflictResolution marks payloads produced by conflict merging.
	SourceConflictResolution Source = "conflict_resolution"
)
