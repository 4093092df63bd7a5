package builtins

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/interp"
	"github.com/rcarmo/gosh/pkg/syntax"
)

// testBuiltin evaluates a test expression from argv. The expression is
// parsed fresh on every invocation; exit status 0 for true, 1 for false,
// 2 for a malformed expression.
func testBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	return evalTestArgs(sh, stdio, "test", argv)
}

// bracketBuiltin is test with a mandatory closing ] argument.
func bracketBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	if len(argv) == 0 || argv[len(argv)-1] != "]" {
		stdio.Errorf("[: missing closing ]\n")
		return 2
	}
	return evalTestArgs(sh, stdio, "[", argv[:len(argv)-1])
}

func evalTestArgs(sh *Shell, stdio *core.Stdio, name string, argv []string) int {
	// test with no arguments is false, not an error.
	if len(argv) == 0 {
		return 1
	}

	p := syntax.NewBoolParser(syntax.NewArgvReader(argv))
	expr, err := p.ParseTest()
	if err != nil {
		stdio.Errorf("%s: %v\n", name, err)
		return 2
	}

	b, err := sh.evalBool(expr, false)
	if err != nil {
		stdio.Errorf("%s: %v\n", name, err)
		return 2
	}
	if b {
		return 0
	}
	return 1
}

// EvalBool evaluates a parsed [[ ... ]] expression. In bracket mode the
// right-hand side of == and != is a glob pattern; test/[ compare
// literally.
func (sh *Shell) EvalBool(expr syntax.BoolExpr) (bool, error) {
	return sh.evalBool(expr, true)
}

func (sh *Shell) evalBool(expr syntax.BoolExpr, dbracket bool) (bool, error) {
	switch n := expr.(type) {
	case syntax.BoolNot:
		b, err := sh.evalBool(n.X, dbracket)
		return !b, err
	case syntax.BoolAnd:
		b, err := sh.evalBool(n.L, dbracket)
		if err != nil || !b {
			return false, err
		}
		return sh.evalBool(n.R, dbracket)
	case syntax.BoolOr:
		b, err := sh.evalBool(n.L, dbracket)
		if err != nil || b {
			return b, err
		}
		return sh.evalBool(n.R, dbracket)
	case syntax.BoolWordTest:
		s, err := sh.wordStr(n.W)
		return s != "", err
	case syntax.BoolUnary:
		return sh.evalUnary(n)
	case syntax.BoolBinary:
		return sh.evalBinary(n, dbracket)
	}
	panic(interp.Fatalf("unhandled bool expression %T", expr))
}

func (sh *Shell) wordStr(w syntax.Word) (string, error) {
	if sh.WordEval != nil {
		if s, ok := sh.WordEval(w); ok {
			return s, nil
		}
	}
	ok, s := syntax.StaticEval(w)
	if !ok {
		return "", fmt.Errorf("word with pending substitution in test expression")
	}
	return s, nil
}

func (sh *Shell) evalUnary(n syntax.BoolUnary) (bool, error) {
	s, err := sh.wordStr(n.X)
	if err != nil {
		return false, err
	}

	switch n.Op {
	case syntax.IdBoolUnaryZ:
		return s == "", nil
	case syntax.IdBoolUnaryN:
		return s != "", nil

	case syntax.IdBoolUnaryV:
		return sh.Mem.GetVar(s).Kind != interp.ValUndef, nil
	case syntax.IdBoolUnaryO:
		on, err := sh.optionIsSet(s)
		return on, err

	case syntax.IdBoolUnaryT:
		fd, err := strconv.Atoi(s)
		if err != nil {
			return false, fmt.Errorf("-t: invalid file descriptor %q", s)
		}
		return term.IsTerminal(fd), nil

	case syntax.IdBoolUnaryR:
		return unix.Access(s, unix.R_OK) == nil, nil
	case syntax.IdBoolUnaryW:
		return unix.Access(s, unix.W_OK) == nil, nil
	case syntax.IdBoolUnaryX:
		return unix.Access(s, unix.X_OK) == nil, nil

	case syntax.IdBoolUnaryH, syntax.IdBoolUnaryCapL:
		var st unix.Stat_t
		if err := unix.Lstat(s, &st); err != nil {
			return false, nil
		}
		return st.Mode&unix.S_IFMT == unix.S_IFLNK, nil
	}

	// The remaining operators stat the file; a missing file is false.
	var st unix.Stat_t
	if err := unix.Stat(s, &st); err != nil {
		return false, nil
	}
	mode := st.Mode

	switch n.Op {
	case syntax.IdBoolUnaryA, syntax.IdBoolUnaryE:
		return true, nil
	case syntax.IdBoolUnaryF:
		return mode&unix.S_IFMT == unix.S_IFREG, nil
	case syntax.IdBoolUnaryD:
		return mode&unix.S_IFMT == unix.S_IFDIR, nil
	case syntax.IdBoolUnaryB:
		return mode&unix.S_IFMT == unix.S_IFBLK, nil
	case syntax.IdBoolUnaryC:
		return mode&unix.S_IFMT == unix.S_IFCHR, nil
	case syntax.IdBoolUnaryP:
		return mode&unix.S_IFMT == unix.S_IFIFO, nil
	case syntax.IdBoolUnaryCapS:
		return mode&unix.S_IFMT == unix.S_IFSOCK, nil
	case syntax.IdBoolUnaryS:
		return st.Size > 0, nil
	case syntax.IdBoolUnaryG:
		return mode&unix.S_ISGID != 0, nil
	case syntax.IdBoolUnaryU:
		return mode&unix.S_ISUID != 0, nil
	case syntax.IdBoolUnaryK:
		return mode&unix.S_ISVTX != 0, nil
	case syntax.IdBoolUnaryCapG:
		return int(st.Gid) == unix.Getegid(), nil
	case syntax.IdBoolUnaryCapO:
		return int(st.Uid) == unix.Geteuid(), nil
	case syntax.IdBoolUnaryCapN:
		atime := unix.TimespecToNsec(st.Atim)
		mtime := unix.TimespecToNsec(st.Mtim)
		return mtime > atime, nil
	}
	return false, fmt.Errorf("unary operator not supported")
}

func (sh *Shell) optionIsSet(name string) (bool, error) {
	switch name {
	case "errexit":
		return sh.Opts.ErrExit, nil
	case "nounset":
		return sh.Opts.NoUnset, nil
	case "noexec":
		return sh.Opts.NoExec, nil
	case "xtrace":
		return sh.Opts.XTrace, nil
	case "verbose":
		return sh.Opts.Verbose, nil
	case "noglob":
		return sh.Opts.NoGlob, nil
	case "pipefail":
		return sh.Opts.PipeFail, nil
	}
	return false, fmt.Errorf("-o: invalid option name %q", name)
}

func (sh *Shell) evalBinary(n syntax.BoolBinary, dbracket bool) (bool, error) {
	l, err := sh.wordStr(n.L)
	if err != nil {
		return false, err
	}
	r, err := sh.wordStr(n.R)
	if err != nil {
		return false, err
	}

	switch n.Op {
	case syntax.IdBoolBinaryEqual, syntax.IdBoolBinaryDEqual, syntax.IdBoolBinaryNEqual:
		eq := l == r
		if dbracket {
			// The right-hand side is a glob pattern; quoting in the
			// pattern word suppresses its metacharacters.
			pat, err := sh.wordPattern(n.R)
			if err != nil {
				return false, err
			}
			eq, err = patternMatch(pat, l)
			if err != nil {
				return false, err
			}
		}
		if n.Op == syntax.IdBoolBinaryNEqual {
			return !eq, nil
		}
		return eq, nil
	case syntax.IdLess:
		return l < r, nil
	case syntax.IdGreat:
		return l > r, nil

	case syntax.IdBoolBinaryEqualTilde:
		// POSIX ERE, the same dialect the parse-time check validates.
		re, err := regexp.CompilePOSIX(r)
		if err != nil {
			return false, fmt.Errorf("invalid regex %q: %v", r, err)
		}
		return re.MatchString(l), nil

	case syntax.IdBoolBinaryEq, syntax.IdBoolBinaryNe, syntax.IdBoolBinaryLt,
		syntax.IdBoolBinaryLe, syntax.IdBoolBinaryGt, syntax.IdBoolBinaryGe:
		a, err := strconv.Atoi(l)
		if err != nil {
			return false, fmt.Errorf("integer expression expected, got %q", l)
		}
		b, err := strconv.Atoi(r)
		if err != nil {
			return false, fmt.Errorf("integer expression expected, got %q", r)
		}
		switch n.Op {
		case syntax.IdBoolBinaryEq:
			return a == b, nil
		case syntax.IdBoolBinaryNe:
			return a != b, nil
		case syntax.IdBoolBinaryLt:
			return a < b, nil
		case syntax.IdBoolBinaryLe:
			return a <= b, nil
		case syntax.IdBoolBinaryGt:
			return a > b, nil
		default:
			return a >= b, nil
		}

	case syntax.IdBoolBinaryNt, syntax.IdBoolBinaryOt, syntax.IdBoolBinaryEf:
		return compareFiles(n.Op, l, r)
	}
	return false, fmt.Errorf("binary operator not supported")
}

func compareFiles(op syntax.Id, l, r string) (bool, error) {
	var ls, rs unix.Stat_t
	lerr := unix.Stat(l, &ls)
	rerr := unix.Stat(r, &rs)

	switch op {
	case syntax.IdBoolBinaryEf:
		if lerr != nil || rerr != nil {
			return false, nil
		}
		return ls.Dev == rs.Dev && ls.Ino == rs.Ino, nil
	case syntax.IdBoolBinaryNt:
		// A missing left file is never newer; a missing right file means
		// the existing left one is.
		if lerr != nil {
			return false, nil
		}
		if rerr != nil {
			return true, nil
		}
		return unix.TimespecToNsec(ls.Mtim) > unix.TimespecToNsec(rs.Mtim), nil
	default: // -ot
		if rerr != nil {
			return false, nil
		}
		if lerr != nil {
			return true, nil
		}
		return unix.TimespecToNsec(ls.Mtim) < unix.TimespecToNsec(rs.Mtim), nil
	}
}
