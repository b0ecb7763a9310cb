// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"context"
	"sort"

	"github.com/automa-saga/logx"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/joomcode/errorx"
	"github.com/rs/zerolog"
)

// defaultManager implements Manager on top of moduleOperations
type defaultManager struct {
	ops    moduleOperations
	logger *zerolog.Logger
}

func (m *defaultManager) Loaded(ctx context.Context) ([]string, error) {
	mods, err := m.ops.loaded()
	if err != nil {
		return nil, InventoryError.Wrap(err, "failed to list loaded kernel modules")
	}
	return CanonicalNames(mods), nil
}

func (m *defaultManager) Persisted(ctx context.Context) ([]string, error) {
	mods, err := m.ops.persisted()
	if err != nil {
		return nil, InventoryError.Wrap(err, "failed to list persisted kernel modules")
	}
	return CanonicalNames(mods), nil
}

// Available returns every module known to the module index together with the loaded ones,
// so a loaded module that still needs persisting is never reported as missing.
func (m *defaultManager) Available(ctx context.Context) ([]string, error) {
	known, err := m.ops.available()
	if err != nil {
		return nil, InventoryError.Wrap(err, "failed to list available kernel modules")
	}

	loaded, err := m.ops.loaded()
	if err != nil {
		return nil, InventoryError.Wrap(err, "failed to list loaded kernel modules")
	}

	return sorted(canonicalSet(known).Union(canonicalSet(loaded))), nil
}

// Load loads name unless it is already loaded, then persists it when asked.
// Names are handled in their canonical spelling, which is also what the Result reports.
func (m *defaultManager) Load(ctx context.Context, name string, persist bool) Result {
	mod := CanonicalName(name)

	before, err := m.ops.loaded()
	if err != nil {
		return Failed(InventoryError.Wrap(err, "failed to list loaded kernel modules"))
	}

	changed := mapset.NewSet[string]()
	if !canonicalSet(before).Contains(mod) {
		if err = m.ops.resolve(mod); err != nil {
			if errorx.IsOfType(err, ModuleNotFoundError) {
				return Unavailable()
			}
			return Failed(err)
		}

		if err = m.ops.load(mod); err != nil {
			return Failed(LoadError.Wrap(err, "modprobe %s failed", mod))
		}

		after, err := m.ops.loaded()
		if err != nil {
			return Failed(InventoryError.Wrap(err, "failed to list loaded kernel modules"))
		}
		changed = canonicalSet(after).Difference(canonicalSet(before))
	}

	if persist {
		added, err := m.ops.persist(mod)
		if err != nil {
			return Failed(PersistError.Wrap(err, "failed to persist kernel module %s", mod))
		}
		changed.Append(CanonicalNames(added)...)
	}

	m.logger.Debug().
		Str("module", mod).
		Bool("persist", persist).
		Strs("changes", sorted(changed)).
		Msg("Kernel module load completed")

	return Changed(sorted(changed)...)
}

func (m *defaultManager) Unload(ctx context.Context, name string, persist bool, comment bool) Result {
	mod := CanonicalName(name)

	before, err := m.ops.loaded()
	if err != nil {
		return Failed(InventoryError.Wrap(err, "failed to list loaded kernel modules"))
	}

	changed := mapset.NewSet[string]()
	if canonicalSet(before).Contains(mod) {
		if err = m.ops.unload(mod); err != nil {
			return Failed(UnloadError.Wrap(err, "rmmod %s failed", mod))
		}

		after, err := m.ops.loaded()
		if err != nil {
			return Failed(InventoryError.Wrap(err, "failed to list loaded kernel modules"))
		}
		changed = canonicalSet(before).Difference(canonicalSet(after))
	}

	if persist {
		removed, err := m.ops.unpersist(mod, comment)
		if err != nil {
			return Failed(PersistError.Wrap(err, "failed to remove kernel module %s from boot configuration", mod))
		}
		changed.Append(CanonicalNames(removed)...)
	}

	m.logger.Debug().
		Str("module", mod).
		Bool("persist", persist).
		Bool("comment", comment).
		Strs("changes", sorted(changed)).
		Msg("Kernel module unload completed")

	return Changed(sorted(changed)...)
}

// Option allows injecting various parameters for the Manager
type Option = func(m *managerConfig)

type managerConfig struct {
	logger *zerolog.Logger
	store  *persistStore
	fs     *systemFiles
}

// WithLogger allows injecting a logger for the Manager
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *managerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithModulesLoadDir sets the systemd modules-load.d directory
func WithModulesLoadDir(dir string) Option {
	return func(c *managerConfig) {
		if dir != "" {
			c.store.dir = dir
		}
	}
}

// WithManagedFile sets the file name, inside the modules-load.d directory, that this tool writes to
func WithManagedFile(name string) Option {
	return func(c *managerConfig) {
		if name != "" {
			c.store.managedFile = name
		}
	}
}

// WithLegacyModulesFile sets the path of the Debian style /etc/modules file
func WithLegacyModulesFile(path string) Option {
	return func(c *managerConfig) {
		if path != "" {
			c.store.legacyFile = path
		}
	}
}

// WithLockFile sets the path of the advisory lock guarding boot configuration edits
func WithLockFile(path string) Option {
	return func(c *managerConfig) {
		if path != "" {
			c.store.lockFile = path
		}
	}
}

// WithSystemd overrides systemd detection when choosing where to persist modules
func WithSystemd(enabled bool) Option {
	return func(c *managerConfig) {
		c.store.systemd = enabled
	}
}

// WithModulesRoot sets the root of the per-release module trees, normally /lib/modules
func WithModulesRoot(dir string) Option {
	return func(c *managerConfig) {
		if dir != "" {
			c.fs.modulesRoot = dir
		}
	}
}

// WithProcModules sets the path of the loaded module table, normally /proc/modules
func WithProcModules(path string) Option {
	return func(c *managerConfig) {
		if path != "" {
			c.fs.procModules = path
		}
	}
}

// NewManager returns a Manager backed by modprobe and the host's boot configuration files.
func NewManager(opts ...Option) (Manager, error) {
	c := &managerConfig{
		logger: logx.As(),
		store:  newPersistStore(),
		fs:     newSystemFiles(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.store.validate(); err != nil {
		return nil, err
	}

	return &defaultManager{
		ops:    &systemOperations{files: c.fs, store: c.store},
		logger: c.logger,
	}, nil
}

func sorted(s mapset.Set[string]) []string {
	out := s.ToSlice()
	sort.Strings(out)
	return out
}

func canonicalSet(names []string) mapset.Set[string] {
	return mapset.NewSet(CanonicalNames(names)...)
}
