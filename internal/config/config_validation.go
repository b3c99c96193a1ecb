package config

// validate checks that the final merged [StructuredConfig] satisfies all
// client invariants before it is used at startup. Defaults are applied
// first, so a failure here means a source explicitly supplied a bad value.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.Address == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.UploadBatchLimit <= 0 || cfg.Sync.DownloadPageLimit <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
