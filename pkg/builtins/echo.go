package builtins

import (
	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/syntax"
)

// echoBuiltin joins argv with single spaces. Flags are parsed echo-style:
// echo -c prints -c and echo --- prints ---.
func echoBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	fv, i := sh.Reg.Spec(BuiltinEcho).ParseLikeEcho(argv)
	args := argv[i:]

	if fv.Bool('e') {
		decoded := make([]string, 0, len(args))
		for _, a := range args {
			s, stop, _ := syntax.DecodeEscapes(a, false)
			decoded = append(decoded, s)
			// \c prints what precedes it and aborts, newline included.
			if stop {
				writeJoined(stdio, decoded)
				return 0
			}
		}
		args = decoded
	}

	writeJoined(stdio, args)
	if !fv.Bool('n') {
		stdio.Print("\n")
	}
	return 0
}

func writeJoined(stdio *core.Stdio, args []string) {
	for i, a := range args {
		if i != 0 {
			stdio.Print(" ")
		}
		stdio.Print(a)
	}
}
