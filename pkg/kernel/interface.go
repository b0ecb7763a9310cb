// SPDX-License-Identifier: Apache-2.0

package kernel

import "context"

//go:generate mockgen -source=interface.go -destination=mock_interface.go -package=kernel

// Inventory reports the kernel modules known to the host.
type Inventory interface {
	// Loaded returns the modules currently loaded in the running kernel.
	Loaded(ctx context.Context) ([]string, error)
	// Persisted returns the modules configured to load at boot.
	Persisted(ctx context.Context) ([]string, error)
	// Available returns the modules that can be loaded on this host.
	Available(ctx context.Context) ([]string, error)
}

// Loader performs the privileged load and unload operations.
type Loader interface {
	// Load loads the module (and its dependencies) and optionally persists it.
	// The returned Result lists every module that was loaded or persisted as a side effect.
	Load(ctx context.Context, name string, persist bool) Result
	// Unload removes the module and optionally removes it from the boot configuration,
	// either commenting the entry out or deleting it.
	Unload(ctx context.Context, name string, persist bool, comment bool) Result
}

// Manager combines Inventory and Loader
type Manager interface {
	Inventory
	Loader
}

// moduleOperations defines the low-level operations for kernel module management
// This interface can be easily mocked for testing
type moduleOperations interface {
	resolve(name string) error
	load(name string) error
	unload(name string) error
	loaded() ([]string, error)
	available() ([]string, error)
	persisted() ([]string, error)
	persist(name string) ([]string, error)
	unpersist(name string, comment bool) ([]string, error)
}
