package plugins

import "errors"

var (
	// ErrPluginNotFound is returned when no registered plugin has the requested name.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrDuplicatePlugin is returned when a plugin name is registered twice.
	ErrDuplicatePlugin = errors.New("plugin already registered")

	// ErrInitializationFailed wraps errors returned by a plugin's Initialize.
	ErrInitializationFailed = errors.New("plugin initialization failed")

	// ErrUnsupportedExpression is returned when the calculator cannot parse its input.
	ErrUnsupportedExpression = errors.New("unsupported expression")

	// ErrDivisionByZero is returned when an expression divides by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrUnknownPlugin is returned when a built-in plugin name is not recognized.
	ErrUnknownPlugin = errors.New("unknown built-in plugin")
)
