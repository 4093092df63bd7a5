package builtins

import (
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/rcarmo/gosh/pkg/core"
)

// umaskBuiltin prints or sets the file creation mask. Only octal input is
// supported.
func umaskBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	switch len(argv) {
	case 0:
		// umask(2) can't be read without setting it.
		mask := unix.Umask(0)
		unix.Umask(mask)
		stdio.Printf("0%03o\n", mask)
		return 0
	case 1:
		mask, err := strconv.ParseInt(argv[0], 8, 32)
		if err != nil {
			return core.RuntimeError(stdio, "umask", "symbolic modes not supported: %q", argv[0])
		}
		unix.Umask(int(mask))
		return 0
	default:
		return core.UsageError(stdio, "umask", "unexpected arguments")
	}
}
