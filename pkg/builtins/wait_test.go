package builtins

import (
	"strconv"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/rcarmo/gosh/pkg/interp"
	"github.com/rcarmo/gosh/pkg/testutil"
)

func TestWaitNoJobs(t *testing.T) {
	stdio, _, _ := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	// Nothing tracked: wait succeeds immediately, wait -n has nothing to
	// wait for.
	if code := sh.Run("wait", nil); code != 0 {
		t.Errorf("wait = %d, want 0", code)
	}
	if code := sh.Run("wait", []string{"-n"}); code != 127 {
		t.Errorf("wait -n = %d, want 127", code)
	}
}

func TestWaitExplicitIds(t *testing.T) {
	stdio, _, _ := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	j1 := sh.Jobs.Add([]int{101})
	j2 := sh.Jobs.Add([]int{102, 103})

	events := []struct{ pid, code int }{
		{101, 3},
		{102, 1},
		{103, 0},
	}
	i := 0
	sh.Waiter.SetWaitFunc(func() (int, unix.WaitStatus, error) {
		e := events[i]
		i++
		return e.pid, unix.WaitStatus(e.code << 8), nil
	})

	// The result is the status of the last listed job, here the
	// pipeline, whose aggregate is its last member.
	code := sh.Run("wait", []string{strconv.Itoa(j1.ID), strconv.Itoa(j2.ID)})
	if code != 0 {
		t.Errorf("wait = %d, want 0", code)
	}

	v := sh.Mem.GetVar("PIPESTATUS")
	if v.Kind != interp.ValStrArray {
		t.Fatalf("PIPESTATUS kind = %v", v.Kind)
	}
	if len(v.Strs) != 2 || v.Strs[0] != "1" || v.Strs[1] != "0" {
		t.Errorf("PIPESTATUS = %v, want [1 0]", v.Strs)
	}

	if sh.Jobs.Lookup(j1.ID) != nil || sh.Jobs.Lookup(j2.ID) != nil {
		t.Error("waited jobs should be removed from the table")
	}
}

func TestWaitBadIds(t *testing.T) {
	stdio, _, errBuf := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	if code := sh.Run("wait", []string{"banana"}); code != 127 {
		t.Errorf("wait banana = %d, want 127", code)
	}
	if !strings.Contains(errBuf.String(), "invalid argument") {
		t.Errorf("stderr = %q", errBuf.String())
	}

	errBuf.Reset()
	if code := sh.Run("wait", []string{"42"}); code != 127 {
		t.Errorf("wait 42 = %d, want 127", code)
	}
	if !strings.Contains(errBuf.String(), "no such job") {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestWaitDoubleDash(t *testing.T) {
	stdio, _, errBuf := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	// 'wait -- -n' treats -n as an id, which is malformed.
	if code := sh.Run("wait", []string{"--", "-n"}); code != 127 {
		t.Errorf("wait -- -n = %d, want 127", code)
	}
	if !strings.Contains(errBuf.String(), "invalid argument") {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestJobsBuiltinEmpty(t *testing.T) {
	stdio, out, _ := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	if code := sh.Run("jobs", nil); code != 0 {
		t.Errorf("jobs = %d, want 0", code)
	}
	testutil.AssertOutput(t, out.String(), "")
}

func TestUmaskReadAndSet(t *testing.T) {
	old := unix.Umask(0)
	unix.Umask(old)
	defer unix.Umask(old)

	stdio, out, _ := testutil.CaptureStdioNoInput()
	sh := NewShell(stdio, nil)

	if code := sh.Run("umask", []string{"027"}); code != 0 {
		t.Fatalf("umask 027 = %d", code)
	}
	if code := sh.Run("umask", nil); code != 0 {
		t.Fatalf("umask = %d", code)
	}
	testutil.AssertOutput(t, out.String(), "0027\n")

	if code := sh.Run("umask", []string{"not-octal"}); code != 1 {
		t.Errorf("umask not-octal = %d, want 1", code)
	}
	if code := sh.Run("umask", []string{"0", "0"}); code != 2 {
		t.Errorf("umask with two args = %d, want 2", code)
	}
}
