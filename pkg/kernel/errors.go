// SPDX-License-Identifier: Apache-2.0

package kernel

import "github.com/joomcode/errorx"

var (
	ErrNamespace = errorx.NewNamespace("kernel")

	ModuleNotFoundError = ErrNamespace.NewType("module_not_found", errorx.NotFound())
	LoadError           = ErrNamespace.NewType("load_error")
	UnloadError         = ErrNamespace.NewType("unload_error")
	PersistError        = ErrNamespace.NewType("persist_error")
	InventoryError      = ErrNamespace.NewType("inventory_error")
)
