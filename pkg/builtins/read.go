package builtins

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/interp"
)

// readBuiltin reads fields from stdin into variables. Without -n it reads
// one or more physical lines (more than one only when a line ends in an
// unescaped continuation backslash), splits them on IFS, and assigns
// leftover words to the last name. Missing fields become empty strings.
func readBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	fv, i, err := sh.Reg.Spec(BuiltinRead).Parse(argv)
	if err != nil {
		return core.UsageError(stdio, "read", err.Error())
	}
	names := argv[i:]

	if nStr, ok := fv.Arg('n'); ok {
		n, err := strconv.Atoi(nStr)
		if err != nil || n < 0 {
			return core.UsageError(stdio, "read", fmt.Sprintf("invalid byte count %q", nStr))
		}
		name := "REPLY"
		if len(names) > 0 {
			name = names[0]
		}
		s := readBytes(stdio.In, n)
		// A short read is not an error.
		return setRead(sh, stdio, name, s)
	}

	if len(names) == 0 {
		names = []string{"REPLY"}
	}

	splitter := interp.NewSplitterFromMem(sh.Mem)
	var parts []string
	joinNext := false
	status := 0

	for {
		line, sawNewline, eof := readLine(stdio.In)
		if eof && line == "" {
			status = 1
			break
		}
		if !sawNewline {
			// bash fails on a final unterminated line but still assigns.
			status = 1
		}

		spans := splitter.SplitForRead(line, !fv.Bool('r'))
		var done bool
		done, joinNext = interp.AppendParts(line, spans, len(names), joinNext, &parts)
		if done {
			break
		}
	}

	for i, name := range names {
		s := ""
		if i < len(parts) {
			s = parts[i]
		}
		if st := setRead(sh, stdio, name, s); st != 0 {
			return st
		}
	}
	return status
}

func setRead(sh *Shell, stdio *core.Stdio, name, val string) int {
	if err := sh.Mem.SetVar(name, interp.Str(val), 0, interp.ScopeLocalOnly); err != nil {
		return core.RuntimeError(stdio, "read", "%v", err)
	}
	return 0
}

// readLine reads one physical line, byte at a time so nothing past the
// newline is consumed from a shared stdin.
func readLine(r io.Reader) (line string, sawNewline, eof bool) {
	var buf []byte
	one := make([]byte, 1)
	for {
		n, err := r.Read(one)
		if n > 0 {
			if one[0] == '\n' {
				return string(buf), true, false
			}
			buf = append(buf, one[0])
		}
		if err != nil {
			return string(buf), false, true
		}
	}
}

// readBytes reads exactly n bytes if it can. When stdin is a terminal it
// switches to raw mode so the read completes without waiting for a
// newline.
func readBytes(r io.Reader, n int) string {
	if f, ok := r.(*os.File); ok {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			if oldState, err := term.MakeRaw(fd); err == nil {
				defer term.Restore(fd, oldState)
			}
		}
	}
	buf := make([]byte, n)
	got, _ := io.ReadFull(r, buf)
	return string(buf[:got])
}
