//go:build integration

package kernel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hashgraph/kmod-weaver/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestManager_LoadAndUnload_Integration runs a full load/persist/unload cycle against the host kernel.
// This test requires root privileges and a Linux system with the dummy module available
func TestManager_LoadAndUnload_Integration(t *testing.T) {
	testutil.RequireRoot(t)

	ctx := context.Background()
	tmp := t.TempDir()
	loadDir := filepath.Join(tmp, "modules-load.d")

	m, err := NewManager(
		WithModulesLoadDir(loadDir),
		WithLegacyModulesFile(filepath.Join(tmp, "modules")),
		WithLockFile(filepath.Join(tmp, "kmod.lock")),
		WithSystemd(true),
	)
	require.NoError(t, err)

	_ = m.Unload(ctx, "dummy", true, false) // ignore errors on cleanup

	res := m.Load(ctx, "dummy", true)
	require.Equal(t, KindChanged, res.Kind, "load failed: %s", res.Message())
	assert.Contains(t, res.Modules, "dummy")

	loaded, err := m.Loaded(ctx)
	require.NoError(t, err)
	assert.Contains(t, loaded, "dummy")

	persisted, err := m.Persisted(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"dummy"}, persisted)

	res = m.Unload(ctx, "dummy", true, false)
	require.Equal(t, KindChanged, res.Kind, "unload failed: %s", res.Message())
	assert.Contains(t, res.Modules, "dummy")

	loaded, err = m.Loaded(ctx)
	require.NoError(t, err)
	assert.NotContains(t, loaded, "dummy")

	persisted, err = m.Persisted(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestManager_LoadNonexistent_Integration(t *testing.T) {
	testutil.RequireRoot(t)

	m, err := NewManager(WithLockFile(filepath.Join(t.TempDir(), "kmod.lock")))
	require.NoError(t, err)

	res := m.Load(context.Background(), "nonexistent_module_12345", false)
	assert.Equal(t, KindUnavailable, res.Kind)
}
