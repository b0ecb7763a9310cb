// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"io"

	"github.com/muesli/termenv"
)

// ANSI color codes for terminal output
const (
	Red    = "\033[31m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	White  = "\033[37m"
	Gray   = "\033[90m"
	Reset  = "\033[0m"
	Bold   = "\033[1m"
)

// palette holds the escape codes used while printing a diagnosis
type palette struct {
	red, yellow, cyan, white, gray, reset, bold string
}

var (
	colored = palette{red: Red, yellow: Yellow, cyan: Cyan, white: White, gray: Gray, reset: Reset, bold: Bold}
	plain   = palette{}
)

// paletteFor returns plain output when w is not a color capable terminal, e.g. when piped to a file
func paletteFor(w io.Writer) palette {
	if termenv.NewOutput(w).EnvColorProfile() == termenv.Ascii {
		return plain
	}
	return colored
}
