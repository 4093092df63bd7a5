// Parity tests run small scripts through our command loop and through
// the system shell, comparing stdout and exit status. They skip when no
// reference shell is installed.
package integration_test

import (
	"testing"

	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/repl"
	"github.com/rcarmo/gosh/pkg/testutil"
)

const referenceShell = "sh"

func runScript(stdio *core.Stdio, script string) int {
	return repl.Run(stdio, []string{"-c", script})
}

func TestShellParity(t *testing.T) {
	tests := []struct {
		name   string
		script string
		input  string
		files  map[string]string
	}{
		{name: "echo words", script: "echo hello world"},
		{name: "echo no newline", script: "echo -n abc"},
		{name: "echo empty", script: "echo"},
		{name: "true status", script: "true"},
		{name: "false status", script: "false"},
		{name: "exit status", script: "exit 7"},
		{name: "assignment and expansion", script: "x=5\necho $x"},
		{name: "status expansion", script: "true\necho $?"},
		{name: "unset expands empty", script: "echo [$missing]"},
		{name: "test string equal", script: "test abc = abc"},
		{name: "test string unequal", script: "test abc = abd"},
		{name: "bracket numeric", script: "[ 3 -lt 5 ]"},
		{name: "bracket negation", script: "[ ! -e no_such_file ]"},
		{name: "test file exists", script: "test -f data.txt",
			files: map[string]string{"data.txt": "x\n"}},
		{name: "test directory", script: "[ -d . ]"},
		{name: "test nonempty file", script: "[ -s data.txt ]",
			files: map[string]string{"data.txt": "x\n"}},
		{name: "read assigns fields", script: "read a b\necho $b $a",
			input: "one two\n"},
		{name: "read at eof", script: "read a", input: ""},
		{name: "shift positionals", script: "set -- p q r\nshift\necho $1 $#"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			testutil.CompareShell(t, referenceShell, runScript, tc.script, tc.input,
				tc.files, testutil.CompareOptions{})
		})
	}
}

// Scripts that are valid input but have no portable reference behavior
// still must not crash or hang.
func TestShellRobustness(t *testing.T) {
	scripts := []string{
		"[[ abc == a* ]]",
		"[[ a == b",
		"echo 'unterminated",
		"getopts",
		"shift 99",
		"cd /no/such/dir",
		"wait -n",
	}
	for _, script := range scripts {
		testutil.CompareShell(t, referenceShell, runScript, script, "", nil,
			testutil.CompareOptions{SkipReference: true})
	}
}
