// SPDX-License-Identifier: Apache-2.0

package state

import "github.com/joomcode/errorx"

var (
	ErrNamespace            = errorx.NewNamespace("state")
	ParseError              = ErrNamespace.NewType("parse_error")
	InvalidDeclarationError = ErrNamespace.NewType("invalid_declaration")
	FileNotFoundError       = ErrNamespace.NewType("file_not_found", errorx.NotFound())
)
