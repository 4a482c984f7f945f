package config

// applyDefaults fills zero-valued fields with startup defaults so that a
// bare binary is runnable against a local stack.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = "localhost:8080"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = "mizu-notes"
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = defaultTokenDuration
	}
	if cfg.Sync.QueueSize <= 0 {
		cfg.Sync.QueueSize = defaultSyncQueueSize
	}
	if cfg.Sync.OperationTimeout == 0 {
		cfg.Sync.OperationTimeout = defaultSyncOperationTimeout
	}
	if cfg.Storage.Redis.TTL == 0 {
		cfg.Storage.Redis.TTL = defaultCacheTTL
	}
	if cfg.Client.ServerURL == "" {
		cfg.Client.ServerURL = "http://localhost:8080"
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return errNoTokenSignKey
	}

	return nil
}
