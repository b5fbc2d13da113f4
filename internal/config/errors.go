package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN or an unsupported driver name).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")

	// ErrInvalidAuthConfigs indicates invalid authentication settings
	// (for example, a missing token sign key, issuer, or duration).
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
)
