package platform

import "errors"

var (
	// ErrInvalidDesktopEntry is returned for desktop files without a usable [Desktop Entry] group.
	ErrInvalidDesktopEntry = errors.New("invalid desktop entry")

	// ErrEmptyCommand is returned when an action has nothing to execute.
	ErrEmptyCommand = errors.New("empty command")

	// ErrLaunchFailed wraps errors starting a process or the platform opener.
	ErrLaunchFailed = errors.New("launch failed")

	// ErrClipboard wraps clipboard write errors.
	ErrClipboard = errors.New("clipboard unavailable")

	// ErrExecutorRequired is returned for plugin actions when no plugin executor is configured.
	ErrExecutorRequired = errors.New("plugin executor is required")

	// ErrUnsupportedAction is returned for action types the performer does not know.
	ErrUnsupportedAction = errors.New("unsupported action")
)
