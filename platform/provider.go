package platform

import (
	"context"
	"log/slog"
	"runtime"
	"slices"

	"github.com/poiesic/launchpad/core"
)

// Provider lists the applications installed on the system.
type Provider interface {
	InstalledApplications(ctx context.Context) ([]core.AppEntry, error)
}

// NewProvider returns the provider for the running platform: desktop entries
// on Linux and the BSDs, an empty StaticProvider elsewhere.
func NewProvider(logger *slog.Logger) Provider {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return NewDesktopProvider(WithDesktopLogger(logger))
	default:
		if logger == nil {
			logger = slog.Default()
		}
		logger.Info("no application provider for platform, application index will be empty", "os", runtime.GOOS)
		return NewStaticProvider()
	}
}

// StaticProvider lists a fixed set of applications.
type StaticProvider struct {
	apps []core.AppEntry
}

var _ Provider = (*StaticProvider)(nil)

// NewStaticProvider creates a provider that always lists apps.
func NewStaticProvider(apps ...core.AppEntry) *StaticProvider {
	return &StaticProvider{apps: slices.Clone(apps)}
}

// InstalledApplications returns deep copies of the configured applications.
func (p *StaticProvider) InstalledApplications(ctx context.Context) ([]core.AppEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	apps := make([]core.AppEntry, len(p.apps))
	for i := range p.apps {
		apps[i] = p.apps[i].Clone()
	}
	return apps, nil
}
