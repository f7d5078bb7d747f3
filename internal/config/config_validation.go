// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [Config] satisfies all application
// invariants before it is used at startup. Client id/secret are deliberately
// not required here: their absence is a login-time error, not a startup one.
func (cfg *Config) validate() error {
	if cfg.App.DataDir == "" || cfg.App.DBPath == "" {
		return ErrInvalidAppConfigs
	}

	switch cfg.Remote.Provider {
	case "http":
		if cfg.Remote.RequestTimeout <= 0 {
			return ErrInvalidRemoteConfigs
		}
	case "s3":
		if cfg.Remote.Bucket == "" || cfg.Remote.Region == "" {
			return ErrInvalidRemoteConfigs
		}
	default:
		return ErrInvalidRemoteConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.Debounce <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
