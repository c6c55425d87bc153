package platform

import (
	"context"
	"testing"

	"github.com/poiesic/launchpad/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider_ReturnsCopies(t *testing.T) {
	p := NewStaticProvider(core.AppEntry{Name: "Terminal", ExecutablePath: "xterm", Keywords: []string{"shell"}})

	apps, err := p.InstalledApplications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)

	apps[0].Keywords[0] = "changed"
	apps[0].UsageCount = 5

	again, err := p.InstalledApplications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shell", again[0].Keywords[0])
	assert.Zero(t, again[0].UsageCount)
}

func TestStaticProvider_Empty(t *testing.T) {
	apps, err := NewStaticProvider().InstalledApplications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestNewProvider(t *testing.T) {
	assert.NotNil(t, NewProvider(nil))
}
