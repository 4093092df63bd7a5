package testutil

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"

	"github.com/rcarmo/gosh/pkg/core"
)

const MaxFuzzBytes = 2048

type CompareOptions struct {
	SkipReference bool
	SharedDir     bool
}

var cwdMu sync.Mutex

func ClampBytes(data []byte, max int) []byte {
	if len(data) > max {
		return data[:max]
	}
	return data
}

func ClampString(data string, max int) string {
	if len(data) > max {
		return data[:max]
	}
	return data
}

// RunLine executes one line of shell input against captured stdio.
// The command loop provides the implementation; keeping it a function
// type avoids an import cycle with the packages under test.
type RunLine func(stdio *core.Stdio, line string) int

func RunLineInDir(t *testing.T, run RunLine, line string, input string, dir string) (string, string, int) {
	t.Helper()
	cwdMu.Lock()
	defer cwdMu.Unlock()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(oldDir) }()

	stdio, out, errBuf := CaptureStdio(input)
	code := run(stdio, line)
	return out.String(), errBuf.String(), code
}

// RunReferenceShell runs the same line under the system shell for
// behavioral comparison. ok is false when no reference shell exists.
func RunReferenceShell(t *testing.T, shell string, line string, input string, dir string) (string, string, int, bool) {
	t.Helper()
	path, err := exec.LookPath(shell)
	if err != nil {
		return "", "", 0, false
	}
	cmd := Command(path, "-c", line)
	cmd.Dir = dir
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	exitCode := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		} else {
			t.Fatalf("reference shell %s: %v", shell, err)
		}
	}
	return outBuf.String(), errBuf.String(), exitCode, true
}

// CompareShell runs one line through ours and through the reference
// shell in matching temp directories and compares the results. The
// reference's stderr wording is never compared, only whether it failed.
func CompareShell(t *testing.T, shell string, run RunLine, line string, input string, files map[string]string, opts CompareOptions) {
	t.Helper()
	ourDir := TempDirWithFiles(t, files)
	refDir := ourDir
	if !opts.SharedDir {
		refDir = TempDirWithFiles(t, files)
	}
	ourOut, ourErr, ourCode := RunLineInDir(t, run, line, input, ourDir)
	if opts.SkipReference {
		_ = ourOut
		_ = ourErr
		_ = ourCode
		return
	}
	refOut, refErr, refCode, ok := RunReferenceShell(t, shell, line, input, refDir)
	if !ok {
		t.Skipf("no %s on PATH", shell)
	}
	CompareShellOutput(t, line, ourOut, ourErr, ourCode, refOut, refErr, refCode)
}

func CompareShellOutput(t *testing.T, line string, ourOut, ourErr string, ourCode int, refOut, refErr string, refCode int) {
	t.Helper()
	if ourCode != refCode {
		t.Fatalf("%s: exit code mismatch: ours=%d reference=%d\nour stderr: %q", line, ourCode, refCode, ourErr)
	}
	if !outputsEqual(ourOut, refOut) {
		t.Fatalf("%s: stdout mismatch:\nours:      %q\nreference: %q", line, ourOut, refOut)
	}
	if (ourErr == "") != (refErr == "") {
		t.Fatalf("%s: stderr presence mismatch:\nours:      %q\nreference: %q", line, ourErr, refErr)
	}
}

func outputsEqual(a, b string) bool {
	if a == b {
		return true
	}
	trimA := strings.TrimSuffix(a, "\n")
	trimB := strings.TrimSuffix(b, "\n")
	return trimA == trimB
}
