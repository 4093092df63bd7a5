package builtins

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/interp"
)

var varNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// exportBuiltin marks variables exported. NAME=value assigns and exports;
// bare NAME exports the existing binding, creating an unset one if needed.
// -n removes the export flag instead.
func exportBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	fv, i, err := sh.Reg.Spec(BuiltinExport).Parse(argv)
	if err != nil {
		return core.UsageError(stdio, "export", err.Error())
	}

	if fv.Bool('n') {
		for _, name := range argv[i:] {
			if !varNameRe.MatchString(name) {
				return core.UsageError(stdio, "export", fmt.Sprintf("invalid variable name %q", name))
			}
			// bash doesn't care if it wasn't found.
			sh.Mem.ClearFlag(name, interp.FlagExported, interp.ScopeDynamic)
		}
		return 0
	}

	for _, arg := range argv[i:] {
		name, val, hasVal := strings.Cut(arg, "=")
		if !varNameRe.MatchString(name) {
			return core.UsageError(stdio, "export", fmt.Sprintf("invalid variable name %q", name))
		}
		if hasVal {
			if err := sh.Mem.SetVar(name, interp.Str(val), interp.FlagExported, interp.ScopeDynamic); err != nil {
				return core.RuntimeError(stdio, "export", "%v", err)
			}
		} else {
			sh.Mem.SetFlag(name, interp.FlagExported, interp.ScopeDynamic)
		}
	}
	return 0
}

// readonlyBuiltin marks variables readonly, assigning first when given
// NAME=value.
func readonlyBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	for _, arg := range argv {
		name, val, hasVal := strings.Cut(arg, "=")
		if !varNameRe.MatchString(name) {
			return core.UsageError(stdio, "readonly", fmt.Sprintf("invalid variable name %q", name))
		}
		if hasVal {
			if err := sh.Mem.SetVar(name, interp.Str(val), interp.FlagReadOnly, interp.ScopeDynamic); err != nil {
				return core.RuntimeError(stdio, "readonly", "%v", err)
			}
		} else {
			sh.Mem.SetFlag(name, interp.FlagReadOnly, interp.ScopeDynamic)
		}
	}
	return 0
}

// setBuiltin applies option changes and optionally replaces the
// positional parameters. Bare set shows the current options.
func setBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	if len(argv) == 0 {
		if err := sh.Opts.ShowOptions(stdio, nil); err != nil {
			return core.RuntimeError(stdio, "set", "%v", err)
		}
		return 0
	}

	i := 0
	sawDoubleDash := false
	for i < len(argv) {
		a := argv[i]
		if a == "--" {
			sawDoubleDash = true
			i++
			break
		}
		if len(a) < 2 || (a[0] != '-' && a[0] != '+') {
			break
		}
		on := a[0] == '-'
		i++

		if a[1] == 'o' {
			if i < len(argv) {
				if err := sh.Opts.SetOption(argv[i], on); err != nil {
					return core.UsageError(stdio, "set", err.Error())
				}
				i++
				continue
			}
			if err := sh.Opts.ShowOptions(stdio, nil); err != nil {
				return core.RuntimeError(stdio, "set", "%v", err)
			}
			continue
		}
		for j := 1; j < len(a); j++ {
			if err := sh.Opts.SetShortOption(a[j], on); err != nil {
				return core.UsageError(stdio, "set", err.Error())
			}
		}
	}

	// set -u shouldn't clear argv; only an explicit -- or operands do.
	if sawDoubleDash || i != len(argv) {
		sh.Mem.SetArgv(argv[i:])
	}
	return 0
}

// shoptBuiltin sets, unsets, or prints shell-specific options; -o routes
// through the set -o namespace.
func shoptBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	fv, i, err := sh.Reg.Spec(BuiltinShopt).Parse(argv)
	if err != nil {
		return core.UsageError(stdio, "shopt", err.Error())
	}
	names := argv[i:]

	if fv.Bool('p') || (!fv.Bool('s') && !fv.Bool('u')) {
		if fv.Bool('o') {
			err = sh.Opts.ShowOptions(stdio, names)
		} else {
			err = sh.Opts.ShowShoptOptions(stdio, names)
		}
		if err != nil {
			return core.RuntimeError(stdio, "shopt", "%v", err)
		}
		return 0
	}

	on := fv.Bool('s')
	for _, name := range names {
		if fv.Bool('o') {
			err = sh.Opts.SetOption(name, on)
		} else {
			err = sh.Opts.SetShoptOption(name, on)
		}
		if err != nil {
			return core.RuntimeError(stdio, "shopt", "%v", err)
		}
	}
	return 0
}

// unsetBuiltin removes variables (-v), functions (-f), or with no flag
// tries the variable first and falls through to the function.
func unsetBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	fv, i, err := sh.Reg.Spec(BuiltinUnset).Parse(argv)
	if err != nil {
		return core.UsageError(stdio, "unset", err.Error())
	}

	for _, name := range argv[i:] {
		if fv.Bool('f') {
			delete(sh.Funcs, name)
			continue
		}
		ok, found := sh.Mem.Unset(name, interp.ScopeDynamic)
		if !ok {
			return core.RuntimeError(stdio, "unset", "%s: readonly variable", name)
		}
		if !found && !fv.Bool('v') {
			delete(sh.Funcs, name)
		}
	}
	return 0
}
