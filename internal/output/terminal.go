package output

import (
	"os"

	"github.com/mattn/go-isatty"
)

// isTerminal reports whether f is attached to a terminal, so color
// can be disabled automatically when output is piped or redirected.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
