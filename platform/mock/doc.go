// Package mock provides test doubles for the platform interfaces.
//
// The mocks let index and engine tests run without reading real desktop
// entries and give tests control over timing and failures.
//
// # Usage in Tests
//
//	// Fixed application list
//	provider := mock.NewMockProvider(core.AppEntry{Name: "Calculator", ExecutablePath: "/usr/bin/calc"})
//
//	// Custom behavior injection
//	provider := mock.NewMockProvider().
//	    WithInstalledApplicationsFunc(func(ctx context.Context) ([]core.AppEntry, error) {
//	        return nil, errors.New("dbus unavailable")
//	    })
//
//	// Check call counts
//	count := provider.CallCount()
package mock
