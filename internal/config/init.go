// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"

	"github.com/automa-saga/logx"
)

// log to the console until Initialize loads the configured settings;
// KMOD_LOG_LEVEL raises the level for that early window
func init() {
	cfg := globalConfig.Log
	if level := os.Getenv(EnvPrefix + "_LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	_ = logx.Initialize(cfg)
}
