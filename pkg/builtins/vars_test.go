package builtins

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rcarmo/gosh/pkg/interp"
	"github.com/rcarmo/gosh/pkg/testutil"
)

func TestExport(t *testing.T) {
	stdio, _, errBuf := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	if code := sh.Run("export", []string{"A=1", "B"}); code != 0 {
		t.Fatalf("export = %d, stderr %q", code, errBuf.String())
	}

	env := sh.Mem.ExportedEnv()
	found := false
	for _, kv := range env {
		if kv == "A=1" {
			found = true
		}
		// B has no value yet, so it must not be materialized.
		if strings.HasPrefix(kv, "B=") {
			t.Errorf("unset exported B leaked into env: %q", kv)
		}
	}
	if !found {
		t.Errorf("A=1 not in env: %v", env)
	}

	// Assigning B later makes it appear.
	if err := sh.Mem.SetVar("B", interp.Str("2"), 0, interp.ScopeDynamic); err != nil {
		t.Fatal(err)
	}
	env = sh.Mem.ExportedEnv()
	if !contains(env, "B=2") {
		t.Errorf("B=2 not in env after assignment: %v", env)
	}

	// export -n removes the flag.
	if code := sh.Run("export", []string{"-n", "A"}); code != 0 {
		t.Fatalf("export -n = %d", code)
	}
	if contains(sh.Mem.ExportedEnv(), "A=1") {
		t.Error("A still exported after export -n")
	}

	if code := sh.Run("export", []string{"1bad=x"}); code != 2 {
		t.Errorf("export with bad name = %d, want 2", code)
	}
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

func TestReadonly(t *testing.T) {
	stdio, _, _ := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	if code := sh.Run("readonly", []string{"R=v"}); code != 0 {
		t.Fatalf("readonly = %d", code)
	}
	if err := sh.Mem.SetVar("R", interp.Str("w"), 0, interp.ScopeDynamic); err == nil {
		t.Error("assignment to readonly succeeded")
	}
	if code := sh.Run("unset", []string{"R"}); code != 1 {
		t.Errorf("unset readonly = %d, want 1", code)
	}
}

func TestSetOptions(t *testing.T) {
	stdio, out, _ := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	if code := sh.Run("set", []string{"-eu"}); code != 0 {
		t.Fatalf("set -eu = %d", code)
	}
	if !sh.Opts.ErrExit || !sh.Opts.NoUnset {
		t.Error("set -eu did not enable errexit and nounset")
	}

	if code := sh.Run("set", []string{"+e"}); code != 0 {
		t.Fatalf("set +e = %d", code)
	}
	if sh.Opts.ErrExit {
		t.Error("set +e did not clear errexit")
	}

	if code := sh.Run("set", []string{"-o", "pipefail"}); code != 0 {
		t.Fatalf("set -o pipefail = %d", code)
	}
	if !sh.Opts.PipeFail {
		t.Error("set -o pipefail did not enable the option")
	}

	if code := sh.Run("set", []string{"-o", "bogus"}); code != 2 {
		t.Errorf("set -o bogus = %d, want 2", code)
	}

	out.Reset()
	if code := sh.Run("set", nil); code != 0 {
		t.Fatalf("bare set = %d", code)
	}
	if !strings.Contains(out.String(), "pipefail") || !strings.Contains(out.String(), "on") {
		t.Errorf("bare set output missing options:\n%s", out.String())
	}
}

func TestSetArgv(t *testing.T) {
	stdio, _, _ := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	if code := sh.Run("set", []string{"--", "a", "b"}); code != 0 {
		t.Fatalf("set -- a b = %d", code)
	}
	if !reflect.DeepEqual(sh.Mem.Argv(), []string{"a", "b"}) {
		t.Errorf("argv = %v", sh.Mem.Argv())
	}

	// set -u alone must not clobber the parameters.
	if code := sh.Run("set", []string{"-u"}); code != 0 {
		t.Fatalf("set -u = %d", code)
	}
	if !reflect.DeepEqual(sh.Mem.Argv(), []string{"a", "b"}) {
		t.Errorf("argv after set -u = %v", sh.Mem.Argv())
	}

	if code := sh.Run("shift", nil); code != 0 {
		t.Fatalf("shift = %d", code)
	}
	if !reflect.DeepEqual(sh.Mem.Argv(), []string{"b"}) {
		t.Errorf("argv after shift = %v", sh.Mem.Argv())
	}
	if code := sh.Run("shift", []string{"5"}); code != 1 {
		t.Errorf("shift past end = %d, want 1", code)
	}
	if code := sh.Run("shift", []string{"x"}); code != 1 {
		t.Errorf("shift with bad count = %d, want 1", code)
	}
}

func TestShopt(t *testing.T) {
	stdio, out, _ := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	if code := sh.Run("shopt", []string{"-s", "nullglob"}); code != 0 {
		t.Fatalf("shopt -s = %d", code)
	}
	if !sh.Opts.NullGlob {
		t.Error("shopt -s nullglob did not enable it")
	}

	out.Reset()
	if code := sh.Run("shopt", []string{"-p", "nullglob"}); code != 0 {
		t.Fatalf("shopt -p = %d", code)
	}
	testutil.AssertOutput(t, out.String(), "shopt -s nullglob\n")

	if code := sh.Run("shopt", []string{"-u", "nullglob"}); code != 0 {
		t.Fatalf("shopt -u = %d", code)
	}
	if sh.Opts.NullGlob {
		t.Error("shopt -u nullglob did not disable it")
	}

	// -o routes through the set -o namespace.
	if code := sh.Run("shopt", []string{"-s", "-o", "errexit"}); code != 0 {
		t.Fatalf("shopt -s -o errexit = %d", code)
	}
	if !sh.Opts.ErrExit {
		t.Error("shopt -s -o errexit did not enable errexit")
	}

	if code := sh.Run("shopt", []string{"-s", "bogus"}); code != 1 {
		t.Errorf("shopt -s bogus = %d, want 1", code)
	}
}

func TestUnsetFallthrough(t *testing.T) {
	stdio, _, _ := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)
	sh.Funcs["f"] = struct{}{}

	// Bare unset tries the variable, then the function.
	if code := sh.Run("unset", []string{"f"}); code != 0 {
		t.Fatalf("unset = %d", code)
	}
	if _, ok := sh.Funcs["f"]; ok {
		t.Error("function survived bare unset")
	}

	// unset -v must not touch functions.
	sh.Funcs["g"] = struct{}{}
	if code := sh.Run("unset", []string{"-v", "g"}); code != 0 {
		t.Fatalf("unset -v = %d", code)
	}
	if _, ok := sh.Funcs["g"]; !ok {
		t.Error("unset -v removed a function")
	}

	// unset -f must not touch variables.
	if err := sh.Mem.SetVar("h", interp.Str("1"), 0, interp.ScopeDynamic); err != nil {
		t.Fatal(err)
	}
	if code := sh.Run("unset", []string{"-f", "h"}); code != 0 {
		t.Fatalf("unset -f = %d", code)
	}
	if got := sh.Mem.GetVar("h"); got.Kind != interp.ValStr {
		t.Error("unset -f removed a variable")
	}
}
