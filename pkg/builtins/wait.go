package builtins

import (
	"strconv"

	"git.sr.ht/~sircmpwn/getopt"

	"github.com/rcarmo/gosh/pkg/core"
	"github.com/rcarmo/gosh/pkg/interp"
)

// waitBuiltin blocks on job completion.
//
//	wait        waits for all tracked jobs; always succeeds.
//	wait -n     waits for the next job to finish; its status, or 127
//	            when nothing remains.
//	wait id...  waits for each listed job; the result is the status of
//	            the last listed id, and multi-process jobs publish
//	            PIPESTATUS. Unknown or malformed ids fail with 127.
func waitBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	// 'wait -- -n' must treat -n as an id, so this parses flags properly
	// rather than echo-style.
	opts, optind, err := getopt.Getopts(append([]string{"wait"}, argv...), "n")
	if err != nil {
		return core.UsageError(stdio, "wait", err.Error())
	}
	waitNext := false
	for _, opt := range opts {
		if opt.Option == 'n' {
			waitNext = true
		}
	}
	args := argv[optind-1:]

	if waitNext {
		if sh.Waiter.WaitNext() {
			return sh.Waiter.LastStatus()
		}
		return core.ExitNotFound
	}

	if len(args) == 0 {
		// Wait for everything tracked now; jobs spawned afterward are out
		// of scope for this call.
		sh.Waiter.WaitAll()
		return 0
	}

	status := 1
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			stdio.Errorf("wait: invalid argument %q\n", a)
			return core.ExitNotFound
		}
		job := sh.Jobs.Lookup(id)
		if job == nil {
			stdio.Errorf("wait: no such job: %d\n", id)
			return core.ExitNotFound
		}

		status = job.WaitUntilDone(sh.Waiter)
		if len(job.Pids) > 1 {
			pipe := job.PipeStatus()
			strs := make([]string, len(pipe))
			for i, st := range pipe {
				strs[i] = strconv.Itoa(st)
			}
			if err := sh.Mem.SetVar("PIPESTATUS", interp.StrArray(strs), 0, interp.ScopeGlobalOnly); err != nil {
				return core.RuntimeError(stdio, "wait", "%v", err)
			}
		}
		sh.Jobs.Remove(id)
	}
	return status
}

func jobsBuiltin(sh *Shell, stdio *core.Stdio, argv []string) int {
	sh.Jobs.List(stdio)
	return 0
}
