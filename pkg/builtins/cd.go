package builtins

import (
	"os"
	"strings"

	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/interp"
)

// cdBuiltin changes directory. Bare cd goes to $HOME; cd - goes to
// $OLDPWD and prints it. On success OLDPWD is set first, then PWD, and
// the directory stack is reset.
func cdBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	var dest string
	switch len(argv) {
	case 0:
		home := sh.Mem.GetVar("HOME")
		switch home.Kind {
		case interp.ValStr:
			dest = home.Str
		case interp.ValUndef:
			return core.RuntimeError(stdio, "cd", "$HOME isn't defined")
		default:
			return core.RuntimeError(stdio, "cd", "$HOME shouldn't be an array")
		}
	case 1:
		dest = argv[0]
	default:
		return core.UsageError(stdio, "cd", "too many arguments")
	}

	if dest == "-" {
		old := sh.Mem.GetVarScope("OLDPWD", interp.ScopeGlobalOnly)
		switch old.Kind {
		case interp.ValUndef:
			return core.RuntimeError(stdio, "cd", "OLDPWD not set")
		case interp.ValStr:
			dest = old.Str
			stdio.Println(dest)
		default:
			panic(interp.Fatalf("OLDPWD should be a string, got kind %d", old.Kind))
		}
	}

	// Not os.Getwd: the current directory may have been removed under us,
	// but $PWD still knows where we were.
	pwd := sh.Mem.GetVar("PWD")
	if pwd.Kind != interp.ValStr {
		panic(interp.Fatalf("PWD should be a string, got kind %d", pwd.Kind))
	}

	if err := os.Chdir(dest); err != nil {
		return core.RuntimeError(stdio, "cd", "%s: %v", dest, err)
	}

	sh.setGlobal("OLDPWD", pwd.Str)
	sh.setGlobal("PWD", dest)
	sh.Dirs.Reset()
	return 0
}

func pushdBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	if len(argv) == 0 {
		return core.RuntimeError(stdio, "pushd", "no other directory")
	}
	if len(argv) > 1 {
		return core.RuntimeError(stdio, "pushd", "too many arguments")
	}
	dest := argv[0]
	if err := os.Chdir(dest); err != nil {
		return core.RuntimeError(stdio, "pushd", "%s: %v", dest, err)
	}
	sh.Dirs.Push(dest)
	printDirStack(sh, stdio, singleLine, true)
	return 0
}

func popdBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	if _, ok := sh.Dirs.Pop(); !ok {
		return core.RuntimeError(stdio, "popd", "directory stack is empty")
	}
	dest := sh.Dirs.Iter()[0]
	if err := os.Chdir(dest); err != nil {
		return core.RuntimeError(stdio, "popd", "%s: %v", dest, err)
	}
	printDirStack(sh, stdio, singleLine, true)
	return 0
}

// dirs printing styles.
const (
	withPrefix = iota
	withoutPrefix
	singleLine
)

func dirsBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	fv, _, err := sh.Reg.Spec(BuiltinDirs).Parse(argv)
	if err != nil {
		return core.UsageError(stdio, "dirs", err.Error())
	}

	switch {
	case fv.Bool('c'):
		sh.Dirs.Reset()
	case fv.Bool('v'):
		printDirStack(sh, stdio, withPrefix, !fv.Bool('l'))
	case fv.Bool('p'):
		printDirStack(sh, stdio, withoutPrefix, !fv.Bool('l'))
	default:
		printDirStack(sh, stdio, singleLine, !fv.Bool('l'))
	}
	return 0
}

func printDirStack(sh *Shell, stdio *core.Stdio, style int, abbrevHome bool) {
	entries := sh.Dirs.Iter()
	if abbrevHome {
		for i, e := range entries {
			entries[i] = abbreviateHome(sh, e)
		}
	}

	switch style {
	case withPrefix:
		for i, entry := range entries {
			stdio.Printf("%2d  %s\n", i, entry)
		}
	case withoutPrefix:
		for _, entry := range entries {
			stdio.Println(entry)
		}
	case singleLine:
		stdio.Println(strings.Join(entries, " "))
	}
}

// abbreviateHome rewrites a $HOME prefix as ~, the way dirs prints unless
// -l is given.
func abbreviateHome(sh *Shell, dir string) string {
	home := sh.Mem.GetVar("HOME")
	if home.Kind != interp.ValStr || home.Str == "" {
		return dir
	}
	if dir == home.Str {
		return "~"
	}
	if strings.HasPrefix(dir, home.Str+"/") {
		return "~" + dir[len(home.Str):]
	}
	return dir
}
