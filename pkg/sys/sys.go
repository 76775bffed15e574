// Package sys provides the thin system layer under the event loop: fd_set
// manipulation, select(2) with a timeout, and terminal detection.
package sys

import "github.com/mattn/go-isatty"

// IsATTY reports whether the given file descriptor refers to a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
