package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/platform"
)

var _ platform.Provider = (*MockProvider)(nil)

// MockProvider is a test double for platform.Provider.
// It allows custom behavior injection via function fields.
type MockProvider struct {
	// InstalledApplicationsFunc is called by InstalledApplications if set.
	// If nil, returns the applications the mock was created with.
	InstalledApplicationsFunc func(ctx context.Context) ([]core.AppEntry, error)

	apps      []core.AppEntry
	mu        sync.Mutex
	callCount int
}

// NewMockProvider creates a mock provider that lists apps.
func NewMockProvider(apps ...core.AppEntry) *MockProvider {
	return &MockProvider{apps: apps}
}

// WithInstalledApplicationsFunc sets custom behavior for InstalledApplications.
func (m *MockProvider) WithInstalledApplicationsFunc(fn func(ctx context.Context) ([]core.AppEntry, error)) *MockProvider {
	m.InstalledApplicationsFunc = fn
	return m
}

// SetApplications replaces the default application list.
func (m *MockProvider) SetApplications(apps ...core.AppEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps = apps
}

// InstalledApplications returns a copy of the configured applications.
func (m *MockProvider) InstalledApplications(ctx context.Context) ([]core.AppEntry, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.InstalledApplicationsFunc
	apps := slices.Clone(m.apps)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return apps, nil
}

// CallCount returns the number of times InstalledApplications was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// ResetCallCount resets the call counter to zero.
func (m *MockProvider) ResetCallCount() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
}
