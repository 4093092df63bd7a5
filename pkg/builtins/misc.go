package builtins

import (
	"strconv"

	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/interp"
)

func trueBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	return 0
}

func falseBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	return 1
}

func colonBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	return 0
}

// exitBuiltin requests interpreter exit; the top-level loop honors
// ExitRequested after the current command.
func exitBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	status := sh.ExitStatus
	if len(argv) > 0 {
		n, err := strconv.Atoi(argv[0])
		if err != nil {
			return core.UsageError(stdio, "exit", "numeric argument required")
		}
		status = n & 0xff
	}
	sh.ExitRequested = true
	sh.ExitStatus = status
	return status
}

func pwdBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	v := sh.Mem.GetVar("PWD")
	if v.Kind != interp.ValStr {
		panic(interp.Fatalf("PWD should be a string, got kind %d", v.Kind))
	}
	stdio.Println(v.Str)
	return 0
}

// trapBuiltin accepts and ignores trap registrations.
func trapBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	stdio.Errorf("trap: not implemented, ignoring\n")
	return 0
}

func shiftBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	if len(argv) > 1 {
		return core.RuntimeError(stdio, "shift", "too many arguments")
	}
	n := 1
	if len(argv) == 1 {
		var err error
		n, err = strconv.Atoi(argv[0])
		if err != nil {
			return core.RuntimeError(stdio, "shift", "invalid argument %q", argv[0])
		}
	}
	return sh.Mem.Shift(n)
}
