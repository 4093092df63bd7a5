// Package builtins implements the shell builtin commands and the dispatch
// registry that resolves a command name to a function, builtin, keyword,
// or executable file.
package builtins

import (
	"os"

	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/interp"
	"github.com/rcarmo/gosh/pkg/syntax"
)

// Shell aggregates the runtime state builtins operate on. One Shell per
// interpreter instance; accessed only from the evaluation thread.
type Shell struct {
	Stdio  *core.Stdio
	Mem    *interp.Mem
	Opts   *interp.ExecOpts
	Jobs   *interp.JobTable
	Waiter *interp.Waiter
	Dirs   *interp.DirStack
	Reg    *Registry

	// Funcs holds the names of user-defined functions. Function bodies
	// belong to the command evaluator; dispatch and unset -f only need
	// the names.
	Funcs map[string]struct{}

	// WordEval, when set, expands words in test expressions; without it
	// only statically known words evaluate. The command loop installs
	// its expander here.
	WordEval func(w syntax.Word) (string, bool)

	// ExitRequested is set by the exit builtin; the top-level loop checks
	// it after each command.
	ExitRequested bool
	ExitStatus    int
}

// NewShell builds a shell over the given streams, importing environ as
// exported global variables.
func NewShell(stdio *core.Stdio, environ []string) *Shell {
	mem := interp.NewMem(environ)
	jobs := interp.NewJobTable()
	sh := &Shell{
		Stdio:  stdio,
		Mem:    mem,
		Opts:   interp.NewExecOpts(),
		Jobs:   jobs,
		Waiter: interp.NewWaiter(jobs),
		Dirs:   interp.NewDirStack(),
		Reg:    NewRegistry(),
		Funcs:  make(map[string]struct{}),
	}

	// getopts counts from 1.
	sh.setGlobal("OPTIND", "1")
	if wd, err := os.Getwd(); err == nil {
		sh.setGlobal("PWD", wd)
	}
	return sh
}

func (sh *Shell) setGlobal(name, val string) {
	if err := sh.Mem.SetVar(name, interp.Str(val), 0, interp.ScopeGlobalOnly); err != nil {
		panic(interp.Fatalf("setting %s: %v", name, err))
	}
}

// Run dispatches one builtin invocation. argv excludes the command name.
func (sh *Shell) Run(name string, argv []string) int {
	return sh.Reg.Run(sh, name, argv)
}
