// SPDX-License-Identifier: Apache-2.0

package kmod

import "github.com/joomcode/errorx"

var (
	ErrNamespace     = errorx.NewNamespace("kmod")
	InventoryError   = ErrNamespace.NewType("inventory_error")
	ConvergenceError = ErrNamespace.NewType("convergence_error")
)
