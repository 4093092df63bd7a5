package builtins

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/rcarmo/gosh/pkg/core"
)

// BuiltinId identifies a registered builtin. The set is closed: every id
// is assigned here, at registration.
type BuiltinId int

const (
	BuiltinNone BuiltinId = iota

	// Special builtins. POSIX says these can't be shadowed by functions.
	BuiltinColon
	BuiltinBreak
	BuiltinContinue
	BuiltinDot
	BuiltinEval
	BuiltinExec
	BuiltinExit
	BuiltinExport
	BuiltinReadonly
	BuiltinReturn
	BuiltinSet
	BuiltinShift
	BuiltinTimes
	BuiltinTrap
	BuiltinUnset
	BuiltinLocal
	BuiltinDeclare

	// Ordinary builtins.
	BuiltinEcho
	BuiltinRead
	BuiltinCd
	BuiltinPushd
	BuiltinPopd
	BuiltinDirs
	BuiltinShopt
	BuiltinCommand
	BuiltinType
	BuiltinGetopts
	BuiltinWait
	BuiltinJobs
	BuiltinUmask
	BuiltinTest
	BuiltinBracket
	BuiltinTrue
	BuiltinFalse
	BuiltinPwd
)

// Builtin is one builtin implementation. argv excludes the command name.
type Builtin func(sh *Shell, stdio *core.Stdio, argv []string) int

// Registry holds the builtin tables: name maps, implementations, flag
// specs, and the getopts opt-spec cache. Built explicitly by NewRegistry;
// there is no import-time registration.
type Registry struct {
	special  map[string]BuiltinId
	ordinary map[string]BuiltinId
	impls    map[BuiltinId]Builtin
	specs    map[BuiltinId]*FlagSpec
	keywords map[string]struct{}

	// getopts opt-spec strings, parsed once per distinct spec.
	optSpecs map[string]optSpec
}

// shellKeywords are reserved words recognized by the command grammar.
var shellKeywords = []string{
	"if", "then", "elif", "else", "fi",
	"case", "esac", "for", "while", "until", "do", "done", "in",
	"function", "time", "{", "}", "!", "[[",
}

// NewRegistry builds the full builtin table.
func NewRegistry() *Registry {
	r := &Registry{
		special:  make(map[string]BuiltinId),
		ordinary: make(map[string]BuiltinId),
		impls:    make(map[BuiltinId]Builtin),
		specs:    make(map[BuiltinId]*FlagSpec),
		keywords: make(map[string]struct{}),
		optSpecs: make(map[string]optSpec),
	}
	for _, kw := range shellKeywords {
		r.keywords[kw] = struct{}{}
	}

	r.registerSpecial(":", BuiltinColon, colonBuiltin, nil)
	r.registerSpecial("break", BuiltinBreak, nil, nil)
	r.registerSpecial("continue", BuiltinContinue, nil, nil)
	r.registerSpecial(".", BuiltinDot, nil, nil)
	r.registerSpecial("eval", BuiltinEval, nil, nil)
	r.registerSpecial("exec", BuiltinExec, nil, nil)
	r.registerSpecial("exit", BuiltinExit, exitBuiltin, nil)
	r.registerSpecial("export", BuiltinExport, exportBuiltin,
		NewFlagSpec("export").ShortFlag('n'))
	r.registerSpecial("readonly", BuiltinReadonly, readonlyBuiltin, nil)
	r.registerSpecial("return", BuiltinReturn, nil, nil)
	r.registerSpecial("set", BuiltinSet, setBuiltin, nil)
	r.registerSpecial("shift", BuiltinShift, shiftBuiltin, nil)
	r.registerSpecial("times", BuiltinTimes, nil, nil)
	r.registerSpecial("trap", BuiltinTrap, trapBuiltin, nil)
	r.registerSpecial("unset", BuiltinUnset, unsetBuiltin,
		NewFlagSpec("unset").ShortFlag('v').ShortFlag('f'))
	r.registerSpecial("local", BuiltinLocal, nil, nil)
	r.registerSpecial("declare", BuiltinDeclare, nil, nil)

	r.register("echo", BuiltinEcho, echoBuiltin,
		NewFlagSpec("echo").ShortFlag('e').ShortFlag('n'))
	r.register("read", BuiltinRead, readBuiltin,
		NewFlagSpec("read").ShortFlag('r').ShortArgFlag('n'))
	r.register("cd", BuiltinCd, cdBuiltin, nil)
	r.register("pushd", BuiltinPushd, pushdBuiltin, nil)
	r.register("popd", BuiltinPopd, popdBuiltin, nil)
	r.register("dirs", BuiltinDirs, dirsBuiltin,
		NewFlagSpec("dirs").ShortFlag('c').ShortFlag('l').ShortFlag('p').ShortFlag('v'))
	r.register("shopt", BuiltinShopt, shoptBuiltin,
		NewFlagSpec("shopt").ShortFlag('s').ShortFlag('u').ShortFlag('o').ShortFlag('p'))
	r.register("command", BuiltinCommand, commandBuiltin,
		NewFlagSpec("command").ShortFlag('v').ShortFlag('V'))
	r.register("type", BuiltinType, typeBuiltin,
		NewFlagSpec("type").ShortFlag('t'))
	r.register("getopts", BuiltinGetopts, getoptsBuiltin, nil)
	r.register("wait", BuiltinWait, waitBuiltin, nil)
	r.register("jobs", BuiltinJobs, jobsBuiltin, nil)
	r.register("umask", BuiltinUmask, umaskBuiltin, nil)
	r.register("test", BuiltinTest, testBuiltin, nil)
	r.register("[", BuiltinBracket, bracketBuiltin, nil)
	r.register("true", BuiltinTrue, trueBuiltin, nil)
	r.register("false", BuiltinFalse, falseBuiltin, nil)
	r.register("pwd", BuiltinPwd, pwdBuiltin, nil)

	return r
}

func (r *Registry) register(name string, id BuiltinId, fn Builtin, spec *FlagSpec) {
	r.ordinary[name] = id
	if fn != nil {
		r.impls[id] = fn
	}
	if spec != nil {
		r.specs[id] = spec
	}
}

func (r *Registry) registerSpecial(name string, id BuiltinId, fn Builtin, spec *FlagSpec) {
	r.special[name] = id
	if fn != nil {
		r.impls[id] = fn
	}
	if spec != nil {
		r.specs[id] = spec
	}
}

// Spec returns a builtin's flag spec.
func (r *Registry) Spec(id BuiltinId) *FlagSpec {
	spec := r.specs[id]
	if spec == nil {
		panic("no flag spec registered for builtin")
	}
	return spec
}

// ResolvedKind classifies what a command name resolved to.
type ResolvedKind int

const (
	ResolvedNone ResolvedKind = iota
	ResolvedSpecial
	ResolvedFunction
	ResolvedBuiltin
	ResolvedKeyword
	ResolvedFile
)

func (k ResolvedKind) String() string {
	switch k {
	case ResolvedSpecial, ResolvedBuiltin:
		return "builtin"
	case ResolvedFunction:
		return "function"
	case ResolvedKeyword:
		return "keyword"
	case ResolvedFile:
		return "file"
	}
	return "none"
}

// Resolution is the result of looking up a command name.
type Resolution struct {
	Kind ResolvedKind
	Id   BuiltinId
	Name string
	Path string // set for ResolvedFile
}

// Resolve looks a command name up in dispatch order: special builtin,
// user function, ordinary builtin, keyword, then the path list. Used by
// execution and by command -v / type. The first match wins; no match is
// an explicit ResolvedNone, distinct from "resolved but failing".
func (r *Registry) Resolve(name string, funcs map[string]struct{}, pathList string) Resolution {
	if id, ok := r.special[name]; ok {
		return Resolution{Kind: ResolvedSpecial, Id: id, Name: name}
	}
	if _, ok := funcs[name]; ok {
		return Resolution{Kind: ResolvedFunction, Name: name}
	}
	if id, ok := r.ordinary[name]; ok {
		return Resolution{Kind: ResolvedBuiltin, Id: id, Name: name}
	}
	if _, ok := r.keywords[name]; ok {
		return Resolution{Kind: ResolvedKeyword, Name: name}
	}
	for _, dir := range strings.Split(pathList, ":") {
		if dir == "" {
			continue
		}
		full := filepath.Join(dir, name)
		st, err := os.Stat(full)
		if err == nil && st.Mode().IsRegular() && unix.Access(full, unix.X_OK) == nil {
			return Resolution{Kind: ResolvedFile, Name: name, Path: full}
		}
	}
	return Resolution{Kind: ResolvedNone, Name: name}
}

// Run executes a builtin by name. An unknown name returns 127; a name
// that resolves but has no implementation reports it.
func (r *Registry) Run(sh *Shell, name string, argv []string) int {
	id, ok := r.special[name]
	if !ok {
		id, ok = r.ordinary[name]
	}
	if !ok {
		sh.Stdio.Errorf("%s: not a builtin\n", name)
		return core.ExitNotFound
	}
	fn := r.impls[id]
	if fn == nil {
		return core.RuntimeError(sh.Stdio, name, "not implemented")
	}
	return fn(sh, sh.Stdio, argv)
}
