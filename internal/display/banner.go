// Package display holds console presentation helpers: the startup banner
// and human-readable sizes.
package display

import (
	"fmt"
	"io"

	"github.com/backmassage/reelorder/internal/term"
)

const banner = `           _               _
 _ __ ___ | | ___  _ __ __| | ___ _ __
| '__/ _ \| |/ _ \| '__/ _` + "`" + ` |/ _ \ '__|
| | |  __/| | (_) | | | (_| |  __/ |
|_|  \___||_|\___/|_|  \__,_|\___|_|
`

// PrintBanner writes the ASCII art banner and version line; uses Magenta if
// colors are enabled.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Magenta+banner+term.NC)
	fmt.Fprintf(w, "reelorder v%s\n\n", version)
}
