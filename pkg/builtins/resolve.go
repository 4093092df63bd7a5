package builtins

import (
	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/interp"
)

func (sh *Shell) pathList() string {
	v := sh.Mem.GetVar("PATH")
	if v.Kind == interp.ValStr {
		return v.Str
	}
	return ""
}

func resolveNames(sh *Shell, names []string) []Resolution {
	out := make([]Resolution, 0, len(names))
	pathList := sh.pathList()
	for _, name := range names {
		out = append(out, sh.Reg.Resolve(name, sh.Funcs, pathList))
	}
	return out
}

// commandBuiltin with -v prints how each name would resolve; -V does the
// same verbosely. Unresolved names print nothing and fail.
func commandBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	fv, i, err := sh.Reg.Spec(BuiltinCommand).Parse(argv)
	if err != nil {
		return core.UsageError(stdio, "command", err.Error())
	}

	if !fv.Bool('v') && !fv.Bool('V') {
		return core.RuntimeError(stdio, "command", "only -v and -V are supported")
	}

	status := 0
	for _, res := range resolveNames(sh, argv[i:]) {
		switch res.Kind {
		case ResolvedNone:
			status = 1
		case ResolvedFile:
			if fv.Bool('V') {
				stdio.Printf("%s is %s\n", res.Name, res.Path)
			} else {
				stdio.Println(res.Path)
			}
		default:
			if fv.Bool('V') {
				stdio.Printf("%s is a shell %s\n", res.Name, res.Kind)
			} else {
				stdio.Println(res.Name)
			}
		}
	}
	return status
}

// typeBuiltin with -t prints each name's resolution kind.
func typeBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	fv, i, err := sh.Reg.Spec(BuiltinType).Parse(argv)
	if err != nil {
		return core.UsageError(stdio, "type", err.Error())
	}

	status := 0
	for _, res := range resolveNames(sh, argv[i:]) {
		if res.Kind == ResolvedNone {
			status = 1
			continue
		}
		if fv.Bool('t') {
			stdio.Println(res.Kind.String())
			continue
		}
		switch res.Kind {
		case ResolvedFile:
			stdio.Printf("%s is %s\n", res.Name, res.Path)
		default:
			stdio.Printf("%s is a shell %s\n", res.Name, res.Kind)
		}
	}
	return status
}
