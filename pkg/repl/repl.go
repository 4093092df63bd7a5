// Package repl implements the gosh command loop: it reads input lines,
// parses them with the syntax package, and dispatches builtins, [[ ]]
// expressions, and external commands.
package repl

import (
	"bufio"
	"os"
	"os/exec"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"

	"git.sr.ht/~sircmpwn/getopt"
	"golang.org/x/term"

	"github.com/rcarmo/gosh/pkg/builtins"
	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/interp"
	"github.com/rcarmo/gosh/pkg/syntax"
)

// Run is the gosh entry point: gosh [-in] [-c command] [arg ...].
func Run(stdio *core.Stdio, args []string) int {
	opts, optind, err := getopt.Getopts(append([]string{"gosh"}, args...), "c:in")
	if err != nil {
		return core.UsageError(stdio, "gosh", err.Error())
	}

	var command string
	interactive := false
	noExec := false
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			command = opt.Value
		case 'i':
			interactive = true
		case 'n':
			noExec = true
		}
	}

	operands := args[optind-1:]

	r := newRunner(stdio)
	r.sh.Opts.NoExec = noExec

	// An interrupt must abort a blocked wait, not kill the shell.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			r.sh.Waiter.Interrupt()
		}
	}()

	if command != "" {
		r.sh.Mem.SetArgv(operands)
		return r.runScript(command)
	}
	if len(operands) > 0 {
		src, err := os.ReadFile(operands[0])
		if err != nil {
			stdio.Errorf("gosh: %s: %v\n", operands[0], err)
			return core.ExitNotFound
		}
		r.sh.Mem.SetArgv(operands[1:])
		return r.runScript(string(src))
	}
	if f, ok := stdio.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		interactive = true
	}
	return r.loop(interactive)
}

type runner struct {
	stdio      *core.Stdio
	sh         *builtins.Shell
	lastStatus int
}

func newRunner(stdio *core.Stdio) *runner {
	r := &runner{
		stdio: stdio,
		sh:    builtins.NewShell(stdio, os.Environ()),
	}
	r.sh.WordEval = func(w syntax.Word) (string, bool) {
		return r.evalWord(w), true
	}
	return r
}

func (r *runner) loop(interactive bool) int {
	scanner := bufio.NewScanner(r.stdio.In)
	for {
		if interactive {
			r.stdio.Errorf("gosh$ ")
		}
		if !scanner.Scan() {
			break
		}
		r.lastStatus = r.runLine(scanner.Text())
		if r.sh.ExitRequested {
			return r.sh.ExitStatus
		}
	}
	return r.lastStatus
}

func (r *runner) runScript(script string) int {
	for _, line := range strings.Split(script, "\n") {
		r.lastStatus = r.runLine(line)
		if r.sh.ExitRequested {
			return r.sh.ExitStatus
		}
		if r.lastStatus != 0 && r.sh.Opts.ErrExit {
			break
		}
	}
	return r.lastStatus
}

var assignRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*=`)

// runLine parses and executes one input line. Interpreter invariant
// violations surface here as fatal errors rather than exit statuses.
func (r *runner) runLine(line string) (status int) {
	defer func() {
		if p := recover(); p != nil {
			fe, ok := p.(*interp.FatalError)
			if !ok {
				panic(p)
			}
			r.stdio.Errorf("gosh: fatal: %s\n", fe.Msg)
			status = 2
		}
	}()

	if r.sh.Opts.Verbose {
		r.stdio.Errorf("%s\n", line)
	}

	lx := syntax.NewLexer(line)
	first, err := lx.ReadWord(syntax.ModeDefault)
	if err != nil {
		return r.parseError(line, err)
	}

	switch id := syntax.BoolId(first); id {
	case syntax.IdEOF, syntax.IdNewline:
		return r.lastStatus
	case syntax.IdDLeftBracket:
		return r.runBracket(line, lx)
	case syntax.IdIllegal, syntax.IdDAmp, syntax.IdDPipe:
		_, text := syntax.StaticEval(first)
		r.stdio.Errorf("gosh: unsupported operator %q\n", text)
		return 2
	}

	words := []syntax.Word{first}
	background := false
	for {
		w, err := lx.ReadWord(syntax.ModeDefault)
		if err != nil {
			return r.parseError(line, err)
		}
		id := syntax.BoolId(w)
		if id == syntax.IdEOF || id == syntax.IdNewline {
			break
		}
		if id == syntax.IdIllegal || id == syntax.IdDAmp || id == syntax.IdDPipe {
			ok, text := syntax.StaticEval(w)
			if ok && text == "&" {
				background = true
				continue
			}
			r.stdio.Errorf("gosh: unsupported operator %q\n", text)
			return 2
		}
		if background {
			r.stdio.Errorf("gosh: & must end the command\n")
			return 2
		}
		words = append(words, w)
	}

	argv := make([]string, len(words))
	for i, w := range words {
		argv[i] = r.evalWord(w)
	}

	if r.sh.Opts.XTrace {
		r.stdio.Errorf("+ %s\n", strings.Join(argv, " "))
	}
	if r.sh.Opts.NoExec {
		return 0
	}

	// NAME=value alone on a line is an assignment.
	if len(argv) == 1 && !background && assignRe.MatchString(argv[0]) {
		return r.assign(argv[0])
	}

	return r.dispatch(argv, background)
}

func (r *runner) assign(arg string) int {
	name, val, _ := strings.Cut(arg, "=")
	if err := r.sh.Mem.SetVar(name, interp.Str(val), 0, interp.ScopeDynamic); err != nil {
		return core.RuntimeError(r.stdio, "gosh", "%v", err)
	}
	return 0
}

// runBracket parses and evaluates a [[ ... ]] expression. The opening
// token has already been consumed.
func (r *runner) runBracket(line string, lx *syntax.Lexer) int {
	p := syntax.NewBoolParser(lx)
	expr, err := p.ParseBracket()
	if err != nil {
		return r.parseError(line, err)
	}
	trailing, err := lx.ReadWord(syntax.ModeDefault)
	if err != nil {
		return r.parseError(line, err)
	}
	if id := syntax.BoolId(trailing); id != syntax.IdEOF && id != syntax.IdNewline {
		return r.parseError(line, &syntax.ParseError{
			Msg:  "unexpected trailing input after ]]",
			Span: trailing.Span(),
		})
	}
	if r.sh.Opts.NoExec {
		return 0
	}
	b, err := r.sh.EvalBool(expr)
	if err != nil {
		return core.RuntimeError(r.stdio, "[[", "%v", err)
	}
	if b {
		return 0
	}
	return 1
}

func (r *runner) parseError(line string, err error) int {
	if pe, ok := err.(*syntax.ParseError); ok {
		syntax.RenderParseError(r.stdio.Err, line, pe)
	} else {
		r.stdio.Errorf("gosh: %v\n", err)
	}
	return 2
}

func (r *runner) dispatch(argv []string, background bool) int {
	name := argv[0]
	res := r.sh.Reg.Resolve(name, r.sh.Funcs, r.pathList())

	switch res.Kind {
	case builtins.ResolvedSpecial, builtins.ResolvedBuiltin:
		if background {
			r.stdio.Errorf("gosh: builtins cannot run in the background\n")
			return 2
		}
		return r.sh.Run(name, argv[1:])
	case builtins.ResolvedFunction:
		return core.RuntimeError(r.stdio, "gosh", "function bodies are not supported: %s", name)
	case builtins.ResolvedKeyword:
		return core.RuntimeError(r.stdio, "gosh", "compound commands are not supported: %s", name)
	case builtins.ResolvedFile:
		return r.runExternal(res.Path, argv, background)
	default:
		r.stdio.Errorf("gosh: %s: command not found\n", name)
		return core.ExitNotFound
	}
}

// runExternal launches an external command. The exported environment is
// snapshotted at spawn; later variable changes don't reach the child.
func (r *runner) runExternal(path string, argv []string, background bool) int {
	cmd := exec.Command(path, argv[1:]...)
	cmd.Stdin = r.stdio.In
	cmd.Stdout = r.stdio.Out
	cmd.Stderr = r.stdio.Err
	cmd.Env = r.sh.Mem.ExportedEnv()
	if background {
		// Background jobs get their own process group, so terminal
		// signals don't reach them.
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	if err := cmd.Start(); err != nil {
		r.stdio.Errorf("gosh: %s: %v\n", argv[0], err)
		return core.ExitNotFound
	}

	job := r.sh.Jobs.Add([]int{cmd.Process.Pid})
	if background {
		r.stdio.Printf("[%d] %d\n", job.ID, cmd.Process.Pid)
		return 0
	}

	st := job.WaitUntilDone(r.sh.Waiter)
	r.sh.Jobs.Remove(job.ID)
	return st
}

func (r *runner) pathList() string {
	v := r.sh.Mem.GetVar("PATH")
	if v.Kind == interp.ValStr {
		return v.Str
	}
	return ""
}

// evalWord expands one word: quotes and escapes resolve statically, and
// substitution parts go through evalSubst. Command substitution is not
// supported and expands empty.
func (r *runner) evalWord(w syntax.Word) string {
	var b strings.Builder
	r.evalParts(w.Parts, &b)
	return b.String()
}

func (r *runner) evalParts(parts []syntax.WordPart, b *strings.Builder) {
	for _, p := range parts {
		switch p := p.(type) {
		case syntax.LiteralPart:
			b.WriteString(p.Tok.Text)
		case syntax.EscapedPart:
			b.WriteString(strings.TrimPrefix(p.Tok.Text, `\`))
		case syntax.SingleQuotedPart:
			b.WriteString(p.Tok.Text)
		case syntax.DoubleQuotedPart:
			r.evalParts(p.Parts, b)
		case syntax.SubstPart:
			b.WriteString(r.evalSubst(p.Tok.Text))
		}
	}
}

func (r *runner) evalSubst(text string) string {
	s := strings.TrimPrefix(text, "$")
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "(") {
		r.stdio.Errorf("gosh: command substitution is not supported\n")
		return ""
	}

	switch s {
	case "?":
		return strconv.Itoa(r.lastStatus)
	case "#":
		return strconv.Itoa(len(r.sh.Mem.Argv()))
	case "@", "*":
		return strings.Join(r.sh.Mem.Argv(), " ")
	case "$":
		return strconv.Itoa(os.Getpid())
	case "!":
		return "" // last background pid: not tracked per word
	}

	if n, err := strconv.Atoi(s); err == nil {
		v := r.sh.Mem.GetArgNum(n)
		if v.Kind == interp.ValStr {
			return v.Str
		}
		return ""
	}

	v := r.sh.Mem.GetVar(s)
	switch v.Kind {
	case interp.ValStr:
		return v.Str
	case interp.ValStrArray:
		return strings.Join(v.Strs, " ")
	default:
		return ""
	}
}
