// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/automa-saga/logx"
	"github.com/hashgraph/kmod-weaver/pkg/kernel"
	"github.com/hashgraph/kmod-weaver/pkg/sanity"
	"github.com/joomcode/errorx"
	"github.com/spf13/viper"
)

const EnvPrefix = "KMOD"

// Config holds the global configuration for the application.
type Config struct {
	Log  logx.LoggingConfig `yaml:"log" json:"log"`
	Kmod KmodConfig         `yaml:"kmod" json:"kmod"`
}

// KmodConfig represents the `kmod` configuration block.
type KmodConfig struct {
	DryRun            bool   `yaml:"dryRun" json:"dryRun"`                       // report changes without applying them
	ModulesLoadDir    string `yaml:"modulesLoadDir" json:"modulesLoadDir"`       // systemd modules-load.d directory
	ManagedFile       string `yaml:"managedFile" json:"managedFile"`             // file written inside modulesLoadDir
	LegacyModulesFile string `yaml:"legacyModulesFile" json:"legacyModulesFile"` // /etc/modules on non-systemd hosts
	ModulesRoot       string `yaml:"modulesRoot" json:"modulesRoot"`             // per-release module trees
	ProcModules       string `yaml:"procModules" json:"procModules"`             // loaded module table
	LockFile          string `yaml:"lockFile" json:"lockFile"`                   // advisory lock for boot configuration edits
}

// Validate validates all kmod configuration fields to ensure they are safe and secure.
func (c *KmodConfig) Validate() error {
	paths := map[string]string{
		"modulesLoadDir":    c.ModulesLoadDir,
		"legacyModulesFile": c.LegacyModulesFile,
		"modulesRoot":       c.ModulesRoot,
		"procModules":       c.ProcModules,
		"lockFile":          c.LockFile,
	}

	for key, p := range paths {
		if p == "" {
			continue
		}
		if _, err := sanity.SanitizePath(p); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid %s: %s", key, p).
				WithProperty(errorx.PropertyPayload(), key)
		}
	}

	if c.ManagedFile != "" {
		if err := sanity.ConfFile(c.ManagedFile); err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid managedFile, expected <name>.conf: %s", c.ManagedFile).
				WithProperty(errorx.PropertyPayload(), "managedFile")
		}
	}

	return nil
}

// ManagerOptions converts the configuration into kernel.Manager options
func (c *KmodConfig) ManagerOptions() []kernel.Option {
	return []kernel.Option{
		kernel.WithModulesLoadDir(c.ModulesLoadDir),
		kernel.WithManagedFile(c.ManagedFile),
		kernel.WithLegacyModulesFile(c.LegacyModulesFile),
		kernel.WithModulesRoot(c.ModulesRoot),
		kernel.WithProcModules(c.ProcModules),
		kernel.WithLockFile(c.LockFile),
	}
}

// Validate validates all configuration fields to ensure they are safe and secure.
func (c Config) Validate() error {
	return c.Kmod.Validate()
}

var globalConfig = defaultConfig()

func defaultConfig() Config {
	return Config{
		Log: logx.LoggingConfig{
			Level:          "Info",
			ConsoleLogging: true,
			FileLogging:    false,
		},
		Kmod: KmodConfig{
			DryRun:            false,
			ModulesLoadDir:    kernel.DefaultModulesLoadDir,
			ManagedFile:       kernel.DefaultManagedFile,
			LegacyModulesFile: kernel.DefaultLegacyModulesFile,
			ModulesRoot:       kernel.DefaultModulesRoot,
			ProcModules:       kernel.DefaultProcModules,
			LockFile:          kernel.DefaultLockFile,
		},
	}
}

// Initialize loads the configuration from the specified file.
//
// Parameters:
//   - path: The path to the configuration file.
//
// Returns:
//   - An error if the configuration cannot be loaded.
func Initialize(path string) error {
	if path != "" {
		globalConfig = defaultConfig()
		viper.Reset()
		viper.SetConfigFile(path)
		viper.SetEnvPrefix(EnvPrefix)
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		err := viper.ReadInConfig()
		if errors.Is(err, fs.ErrNotExist) {
			return NotFoundError.Wrap(err, "config file not found: %s", path).
				WithProperty(errorx.PropertyPayload(), path)
		}
		if err != nil {
			return ReadError.Wrap(err, "failed to read config file: %s", path).
				WithProperty(errorx.PropertyPayload(), path)
		}

		if err := viper.Unmarshal(&globalConfig); err != nil {
			return errorx.IllegalFormat.Wrap(err, "failed to parse configuration").
				WithProperty(errorx.PropertyPayload(), path)
		}
	}

	return globalConfig.Validate()
}

// Get returns the loaded configuration.
func Get() Config {
	return globalConfig
}

// SetDryRun overrides the dry-run flag, e.g. from the --test command line flag.
func SetDryRun(dryRun bool) {
	globalConfig.Kmod.DryRun = dryRun
}
