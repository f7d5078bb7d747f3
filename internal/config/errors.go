package config

import "errors"

// Validation errors returned by [Config.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidRemoteConfigs indicates invalid remote backend settings
	// (unknown provider, or a provider missing its connection fields).
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an empty data directory).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidSyncConfigs indicates invalid scheduler settings
	// (zero or negative interval/debounce).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
