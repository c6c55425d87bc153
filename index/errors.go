package index

import "errors"

var (
	// ErrBuild wraps failures of a rebuild pass.
	ErrBuild = errors.New("index build failed")

	// ErrFileSystem wraps failures reading include roots.
	ErrFileSystem = errors.New("file system error")

	// ErrPlatform wraps failures of the platform application provider.
	ErrPlatform = errors.New("platform provider error")

	// ErrStoreRequired is returned when a builder is constructed without a store.
	ErrStoreRequired = errors.New("index store is required")

	// ErrProviderRequired is returned when a builder is constructed without a provider.
	ErrProviderRequired = errors.New("application provider is required")

	// ErrBuilderRequired is returned when a watcher is constructed without a builder.
	ErrBuilderRequired = errors.New("index builder is required")

	// ErrInvalidMaxAttempts is returned when retry attempts is not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")
)
