package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	ErrInvalidStorageConfigs    = errors.New("invalid storage configuration")
	ErrInvalidAppConfigs        = errors.New("invalid app configuration")
	ErrInvalidServerConfigs     = errors.New("invalid server configuration")
	ErrInvalidNotifierConfigs   = errors.New("invalid notifier configuration")
	ErrInvalidAttachmentConfigs = errors.New("invalid attachments configuration")
)
