// SPDX-License-Identifier: Apache-2.0

package config

import "github.com/joomcode/errorx"

var (
	ErrNamespace = errorx.NewNamespace("config")

	// NotFoundError is returned when the configuration file does not exist
	NotFoundError = ErrNamespace.NewType("not_found", errorx.NotFound())
	// ReadError is returned when the configuration file exists but cannot be read or parsed
	ReadError = ErrNamespace.NewType("read_error")
)
