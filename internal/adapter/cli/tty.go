package cli

import "golang.org/x/term"

// IsTTY reports whether the given file descriptor is attached to a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
