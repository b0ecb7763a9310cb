// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashgraph/kmod-weaver/pkg/kernel"
	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitialize_Defaults(t *testing.T) {
	require.NoError(t, Initialize(""))

	cfg := Get()
	assert.False(t, cfg.Kmod.DryRun)
	assert.Equal(t, kernel.DefaultModulesLoadDir, cfg.Kmod.ModulesLoadDir)
	assert.Equal(t, kernel.DefaultManagedFile, cfg.Kmod.ManagedFile)
	assert.Equal(t, kernel.DefaultLegacyModulesFile, cfg.Kmod.LegacyModulesFile)
	assert.Equal(t, kernel.DefaultModulesRoot, cfg.Kmod.ModulesRoot)
	assert.Equal(t, kernel.DefaultProcModules, cfg.Kmod.ProcModules)
	assert.Equal(t, kernel.DefaultLockFile, cfg.Kmod.LockFile)
}

func TestInitialize_FromFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: Debug
  consoleLogging: true
kmod:
  dryRun: true
  modulesLoadDir: /tmp/modules-load.d
  managedFile: 99-cluster.conf
`)

	require.NoError(t, Initialize(path))

	cfg := Get()
	assert.True(t, cfg.Kmod.DryRun)
	assert.Equal(t, "/tmp/modules-load.d", cfg.Kmod.ModulesLoadDir)
	assert.Equal(t, "99-cluster.conf", cfg.Kmod.ManagedFile)
	// untouched keys keep their defaults
	assert.Equal(t, kernel.DefaultProcModules, cfg.Kmod.ProcModules)
}

func TestInitialize_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
kmod:
  modulesLoadDir: /tmp/modules-load.d
`)
	t.Setenv("KMOD_KMOD_MODULESLOADDIR", "/tmp/override.d")

	require.NoError(t, Initialize(path))
	assert.Equal(t, "/tmp/override.d", Get().Kmod.ModulesLoadDir)
}

func TestInitialize_MissingFile(t *testing.T) {
	err := Initialize(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, NotFoundError))
}

func TestInitialize_MalformedFile(t *testing.T) {
	path := writeConfig(t, "kmod: [unterminated\n")

	err := Initialize(path)
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, ReadError))
	assert.False(t, errorx.IsOfType(err, NotFoundError))
}

func TestInitialize_RejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
kmod:
  managedFile: ../escape.conf
`)

	err := Initialize(path)
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, errorx.IllegalArgument))
}

func TestKmodConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     KmodConfig
		wantErr bool
	}{
		{
			name: "defaults",
			cfg:  defaultConfig().Kmod,
		},
		{
			name: "empty values are left to the kernel defaults",
			cfg:  KmodConfig{},
		},
		{
			name:    "managed file without conf suffix",
			cfg:     KmodConfig{ManagedFile: "managed.txt"},
			wantErr: true,
		},
		{
			name:    "managed file with a directory",
			cfg:     KmodConfig{ManagedFile: "sub/managed.conf"},
			wantErr: true,
		},
		{
			name:    "path with shell metacharacters",
			cfg:     KmodConfig{ProcModules: "/proc/modules;rm -rf /"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSetDryRun(t *testing.T) {
	require.NoError(t, Initialize(""))
	SetDryRun(true)
	t.Cleanup(func() { SetDryRun(false) })

	assert.True(t, Get().Kmod.DryRun)
}
