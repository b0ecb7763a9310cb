// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/util"
	"github.com/gofrs/flock"
	"github.com/hashgraph/kmod-weaver/pkg/sanity"
	"github.com/joomcode/errorx"
	"github.com/moby/sys/atomicwriter"
)

const (
	DefaultModulesLoadDir    = "/etc/modules-load.d"
	DefaultManagedFile       = "kmod_managed.conf"
	DefaultLegacyModulesFile = "/etc/modules"
	DefaultLockFile          = "/run/lock/kmod-weaver.lock"

	persistFilePerm = 0o644
	lockTimeout     = 30 * time.Second
	lockRetryDelay  = time.Second
)

// persistStore reads and edits the boot-time module lists.
//
// Every *.conf file in the modules-load.d directory and the legacy /etc/modules file are sources.
// New entries are written to the managed file on systemd hosts, and to /etc/modules otherwise.
type persistStore struct {
	dir         string
	managedFile string
	legacyFile  string
	lockFile    string
	systemd     bool
}

func newPersistStore() *persistStore {
	return &persistStore{
		dir:         DefaultModulesLoadDir,
		managedFile: DefaultManagedFile,
		legacyFile:  DefaultLegacyModulesFile,
		lockFile:    DefaultLockFile,
		systemd:     util.IsRunningSystemd(),
	}
}

func (s *persistStore) validate() error {
	if err := sanity.ConfFile(s.managedFile); err != nil {
		return errorx.IllegalArgument.Wrap(err, "invalid managed file")
	}
	return nil
}

// target is the file new entries are written to
func (s *persistStore) target() string {
	if s.systemd {
		return filepath.Join(s.dir, s.managedFile)
	}
	return s.legacyFile
}

// sources returns every file that may declare boot-time modules, in a stable order
func (s *persistStore) sources() ([]string, error) {
	var files []string

	entries, err := os.ReadDir(s.dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".conf") {
			continue
		}
		files = append(files, filepath.Join(s.dir, entry.Name()))
	}
	sort.Strings(files)

	if _, err = os.Stat(s.legacyFile); err == nil {
		files = append(files, s.legacyFile)
	}

	return files, nil
}

// list returns the canonical names of every persisted module, in source order
func (s *persistStore) list() ([]string, error) {
	files, err := s.sources()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var mods []string
	for _, file := range files {
		lines, err := readLines(file)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			name := CanonicalName(entryName(line))
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			mods = append(mods, name)
		}
	}

	return mods, nil
}

// add persists name and returns its canonical spelling, or returns nothing when it was already persisted.
// A commented out entry in the target file is uncommented rather than duplicated.
func (s *persistStore) add(name string) ([]string, error) {
	name = CanonicalName(name)
	var added []string
	err := s.withLock(func() error {
		current, err := s.list()
		if err != nil {
			return err
		}
		for _, mod := range current {
			if mod == name {
				return nil
			}
		}

		target := s.target()
		lines, err := readLines(target)
		if err != nil {
			return err
		}

		uncommented := false
		for i, line := range lines {
			if CanonicalName(commentedName(line)) == name {
				lines[i] = strings.TrimLeft(strings.TrimSpace(line), "#; \t")
				uncommented = true
				break
			}
		}
		if !uncommented {
			lines = append(lines, name)
		}

		if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err = writeLines(target, lines); err != nil {
			return err
		}

		added = []string{name}
		return nil
	})

	return added, err
}

// remove drops name from every source file, commenting the entries out when comment is set.
// Entries match whichever of '-' and '_' they are spelled with.
// It returns the canonical name when at least one entry was changed.
func (s *persistStore) remove(name string, comment bool) ([]string, error) {
	name = CanonicalName(name)
	var removed []string
	err := s.withLock(func() error {
		files, err := s.sources()
		if err != nil {
			return err
		}

		for _, file := range files {
			lines, err := readLines(file)
			if err != nil {
				return err
			}

			changed := false
			out := make([]string, 0, len(lines))
			for _, line := range lines {
				if CanonicalName(entryName(line)) != name {
					out = append(out, line)
					continue
				}
				changed = true
				if comment {
					out = append(out, "#"+line)
				}
			}

			if !changed {
				continue
			}
			if err = writeLines(file, out); err != nil {
				return err
			}
			removed = []string{name}
		}

		return nil
	})

	return removed, err
}

func (s *persistStore) withLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.lockFile), 0o755); err != nil {
		return err
	}

	fileLock := flock.New(s.lockFile)
	lockCtx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return errorx.IllegalState.Wrap(err, "failed to acquire file lock %q", s.lockFile)
	}
	if !locked {
		return errorx.IllegalState.New("timed out acquiring file lock %q", s.lockFile)
	}
	defer func() {
		_ = fileLock.Unlock()
	}()

	return fn()
}

// entryName returns the module declared by a boot configuration line, or "" for blanks and comments.
// /etc/modules lines may carry module parameters after the name.
func entryName(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
		return ""
	}
	return strings.Fields(line)[0]
}

// commentedName returns the module of a commented out entry such as "#br_netfilter"
func commentedName(line string) string {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "#") && !strings.HasPrefix(line, ";") {
		return ""
	}
	return entryName(strings.TrimLeft(line, "#; \t"))
}

func readLines(file string) ([]string, error) {
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	content := strings.TrimRight(string(data), "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, "\n"), nil
}

func writeLines(file string, lines []string) error {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	return atomicwriter.WriteFile(file, []byte(content), persistFilePerm)
}
