package config

import "errors"

var (
	// ErrInvalidConfig is returned when a configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrParse wraps YAML decoding errors.
	ErrParse = errors.New("config parse error")

	// ErrLocked is returned when the config file lock cannot be acquired in time.
	ErrLocked = errors.New("config file is locked")
)
