// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestParseProcModules(t *testing.T) {
	data := []byte("br_netfilter 32768 0 - Live 0x0000000000000000\n" +
		"bridge 421888 1 br_netfilter, Live 0x0000000000000000\n" +
		"\n" +
		"overlay 212992 0 - Live 0x0000000000000000\n")

	assert.Equal(t, []string{"br_netfilter", "bridge", "overlay"}, parseProcModules(data))
}

func TestParseModulesDep(t *testing.T) {
	data := []byte("kernel/drivers/net/dummy.ko.zst:\n" +
		"kernel/net/bridge/br_netfilter.ko: kernel/net/bridge/bridge.ko kernel/net/802/stp.ko\n" +
		"kernel/drivers/hid/hid-generic.ko.xz: kernel/drivers/hid/hid.ko.xz\n" +
		"garbage line\n")

	assert.Equal(t, []string{"dummy", "br_netfilter", "hid_generic"}, parseModulesDep(data))
}

func TestSystemOperations_ReadsModuleTables(t *testing.T) {
	tmp := t.TempDir()
	procModules := filepath.Join(tmp, "modules")
	require.NoError(t, os.WriteFile(procModules, []byte("overlay 212992 0 - Live 0x0\n"), 0o644))

	release := "6.8.0-test"
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "lib", release), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "lib", release, modulesDepFile),
		[]byte("kernel/fs/overlayfs/overlay.ko:\nkernel/drivers/net/dummy.ko:\n"), 0o644))

	ops := &systemOperations{
		files: &systemFiles{procModules: procModules, modulesRoot: filepath.Join(tmp, "lib"), release: release},
		store: newTestStore(t, true),
	}

	loaded, err := ops.loaded()
	require.NoError(t, err)
	assert.Equal(t, []string{"overlay"}, loaded)

	available, err := ops.available()
	require.NoError(t, err)
	assert.Equal(t, []string{"overlay", "dummy"}, available)
}

func TestSystemOperations_Resolve(t *testing.T) {
	original := modprobeResolve
	defer func() { modprobeResolve = original }()

	modprobeResolve = func(name string) (string, error) {
		if name == "dummy" {
			return "/lib/modules/test/kernel/drivers/net/dummy.ko", nil
		}
		return "", os.ErrNotExist
	}

	ops := &systemOperations{files: newSystemFiles(), store: newPersistStore()}
	require.NoError(t, ops.resolve("dummy"))

	err := ops.resolve("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestSystemFiles_KernelRelease(t *testing.T) {
	original := uname
	defer func() { uname = original }()

	calls := 0
	uname = func(uts *unix.Utsname) error {
		calls++
		copy(uts.Release[:], "6.8.0-45-generic")
		return nil
	}

	f := newSystemFiles()
	release, err := f.kernelRelease()
	require.NoError(t, err)
	assert.Equal(t, "6.8.0-45-generic", release)

	// cached after the first call
	_, err = f.kernelRelease()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestResultKind_String(t *testing.T) {
	assert.Equal(t, "changed", Changed("a").Kind.String())
	assert.Equal(t, "unavailable", Unavailable().Kind.String())
	assert.Equal(t, "failed", Failed(os.ErrPermission).Kind.String())
	assert.Equal(t, os.ErrPermission.Error(), Failed(os.ErrPermission).Message())
	assert.Equal(t, "", Changed().Message())
}
