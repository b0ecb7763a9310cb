// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
	"pault.ag/go/modprobe"
)

const (
	DefaultProcModules = "/proc/modules"
	DefaultModulesRoot = "/lib/modules"
	modulesDepFile     = "modules.dep"
)

// use var to allow mocking in tests
var (
	modprobeLoad    = modprobe.Load
	modprobeRemove  = modprobe.Remove
	modprobeResolve = modprobe.ResolveName
	uname           = unix.Uname
)

// systemFiles locates the kernel's module tables
type systemFiles struct {
	procModules string
	modulesRoot string
	release     string
}

func newSystemFiles() *systemFiles {
	return &systemFiles{
		procModules: DefaultProcModules,
		modulesRoot: DefaultModulesRoot,
	}
}

// kernelRelease returns the running kernel release, e.g. 6.8.0-45-generic
func (f *systemFiles) kernelRelease() (string, error) {
	if f.release != "" {
		return f.release, nil
	}

	var uts unix.Utsname
	if err := uname(&uts); err != nil {
		return "", err
	}

	f.release = unix.ByteSliceToString(uts.Release[:])
	return f.release, nil
}

// systemOperations implements moduleOperations against the running host
type systemOperations struct {
	files *systemFiles
	store *persistStore
}

func (o *systemOperations) resolve(name string) error {
	if _, err := modprobeResolve(name); err != nil {
		return ModuleNotFoundError.Wrap(err, "kernel module %s not found", name)
	}
	return nil
}

func (o *systemOperations) load(name string) error {
	return modprobeLoad(name, "")
}

func (o *systemOperations) unload(name string) error {
	return modprobeRemove(name)
}

// loaded parses the first column of /proc/modules
func (o *systemOperations) loaded() ([]string, error) {
	data, err := os.ReadFile(o.files.procModules)
	if err != nil {
		return nil, err
	}

	return parseProcModules(data), nil
}

// available lists module names from modules.dep of the running kernel
func (o *systemOperations) available() ([]string, error) {
	release, err := o.files.kernelRelease()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(o.files.modulesRoot, release, modulesDepFile))
	if err != nil {
		return nil, err
	}

	return parseModulesDep(data), nil
}

func (o *systemOperations) persisted() ([]string, error) {
	return o.store.list()
}

func (o *systemOperations) persist(name string) ([]string, error) {
	return o.store.add(name)
}

func (o *systemOperations) unpersist(name string, comment bool) ([]string, error) {
	return o.store.remove(name, comment)
}

func parseProcModules(data []byte) []string {
	var mods []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		mods = append(mods, fields[0])
	}
	return mods
}

// parseModulesDep extracts module names from lines such as
// "kernel/drivers/net/dummy.ko.zst: kernel/lib/foo.ko"
func parseModulesDep(data []byte) []string {
	var mods []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		if name := moduleNameFromPath(line[:idx]); name != "" {
			mods = append(mods, name)
		}
	}
	return mods
}

// moduleNameFromPath turns a module file path into the name the kernel reports for it
func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	idx := strings.Index(base, ".ko")
	if idx <= 0 {
		return ""
	}
	return CanonicalName(base[:idx])
}
