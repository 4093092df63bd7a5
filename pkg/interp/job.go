package interp

import (
	"fmt"
	"sort"

	"github.com/edwingeng/deque"
	"github.com/rcarmo/gosh/pkg/core"
	"github.com/tevino/abool/v2"
	"golang.org/x/sys/unix"
)

// JobState tracks a job's lifecycle: Running -> {Stopped <-> Running} -> Done.
type JobState int

const (
	JobRunning JobState = iota
	JobStopped
	JobDone
)

func (s JobState) String() string {
	switch s {
	case JobRunning:
		return "Running"
	case JobStopped:
		return "Stopped"
	case JobDone:
		return "Done"
	}
	return "Unknown"
}

// Job is one background pipeline: a process group whose members are
// tracked individually so PIPESTATUS can be published when it completes.
type Job struct {
	ID    int
	Pgid  int
	Pids  []int
	State JobState

	statuses []int
	reaped   []bool
	pending  int
}

// NewJob tracks a pipeline whose members are the given pids, in pipeline
// order. The first pid is taken as the process group leader.
func NewJob(id int, pids []int) *Job {
	pgid := 0
	if len(pids) > 0 {
		pgid = pids[0]
	}
	return &Job{
		ID:       id,
		Pgid:     pgid,
		Pids:     pids,
		State:    JobRunning,
		statuses: make([]int, len(pids)),
		reaped:   make([]bool, len(pids)),
		pending:  len(pids),
	}
}

// Status is the job's aggregate exit status: the last pipeline member's.
func (j *Job) Status() int {
	if len(j.statuses) == 0 {
		return 0
	}
	return j.statuses[len(j.statuses)-1]
}

// PipeStatus returns every member's exit status in pipeline order.
func (j *Job) PipeStatus() []int {
	out := make([]int, len(j.statuses))
	copy(out, j.statuses)
	return out
}

// memberDone records one member's exit status. The job transitions to
// Done once every member has been reaped.
func (j *Job) memberDone(pid, status int) {
	for i, p := range j.Pids {
		if p == pid && !j.reaped[i] {
			j.statuses[i] = status
			j.reaped[i] = true
			j.pending--
			break
		}
	}
	if j.pending == 0 {
		j.State = JobDone
	} else {
		j.State = JobRunning
	}
}

// WaitUntilDone blocks, reaping children through w, until this job is
// Done, then returns its aggregate status.
func (j *Job) WaitUntilDone(w *Waiter) int {
	for j.State != JobDone {
		if !w.Wait() {
			break
		}
	}
	return j.Status()
}

// JobTable tracks background jobs by id and routes reaped pids back to
// their job. Accessed only from the evaluation thread.
type JobTable struct {
	jobs   map[int]*Job
	byPid  map[int]*Job
	nextID int
}

func NewJobTable() *JobTable {
	return &JobTable{
		jobs:   make(map[int]*Job),
		byPid:  make(map[int]*Job),
		nextID: 1,
	}
}

// Add registers a new pipeline and returns its job.
func (t *JobTable) Add(pids []int) *Job {
	job := NewJob(t.nextID, pids)
	t.nextID++
	t.jobs[job.ID] = job
	for _, pid := range pids {
		t.byPid[pid] = job
	}
	return job
}

// Lookup returns the job with the given id, or nil.
func (t *JobTable) Lookup(id int) *Job {
	return t.jobs[id]
}

// Remove drops a job from the table once its statuses have been consumed.
func (t *JobTable) Remove(id int) {
	job := t.jobs[id]
	if job == nil {
		return
	}
	for _, pid := range job.Pids {
		delete(t.byPid, pid)
	}
	delete(t.jobs, id)
}

// AllDone reports whether every tracked job has finished.
func (t *JobTable) AllDone() bool {
	for _, job := range t.jobs {
		if job.State != JobDone {
			return false
		}
	}
	return true
}

// IDs returns tracked job ids in ascending order.
func (t *JobTable) IDs() []int {
	ids := make([]int, 0, len(t.jobs))
	for id := range t.jobs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// List prints one line per tracked job.
func (t *JobTable) List(stdio *core.Stdio) {
	for _, id := range t.IDs() {
		job := t.jobs[id]
		stdio.Printf("[%d]  %-8s  %s\n", id, job.State, pidList(job.Pids))
	}
}

func pidList(pids []int) string {
	s := ""
	for i, pid := range pids {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%d", pid)
	}
	return s
}

// Waiter observes child completion for the job table. Wait blocks in
// wait(2); an interrupt signal sets the flag and aborts the blocked call.
type Waiter struct {
	jobs        *JobTable
	interrupted *abool.AtomicBool
	finished    deque.Deque
	lastStatus  int

	// waitOne performs one blocking wait for any child. Swapped out in
	// tests.
	waitOne func() (pid int, status unix.WaitStatus, err error)
}

func NewWaiter(jobs *JobTable) *Waiter {
	return &Waiter{
		jobs:        jobs,
		interrupted: abool.NewBool(false),
		finished:    deque.NewDeque(),
		waitOne:     sysWaitOne,
	}
}

// SetWaitFunc replaces the underlying wait call. Tests use it to feed
// synthetic child exits.
func (w *Waiter) SetWaitFunc(fn func() (int, unix.WaitStatus, error)) {
	w.waitOne = fn
}

func sysWaitOne() (int, unix.WaitStatus, error) {
	var ws unix.WaitStatus
	pid, err := unix.Wait4(-1, &ws, unix.WUNTRACED, nil)
	return pid, ws, err
}

// Interrupt aborts a blocked Wait. Safe to call from a signal handler
// goroutine.
func (w *Waiter) Interrupt() {
	w.interrupted.Set()
}

// LastStatus is the aggregate status of the most recent job consumed by
// WaitNext.
func (w *Waiter) LastStatus() int {
	return w.lastStatus
}

// Wait reaps one child state change and updates the job table. Returns
// false when no children remain, or when an interrupt aborted the wait.
func (w *Waiter) Wait() bool {
	for {
		pid, ws, err := w.waitOne()
		if err == unix.EINTR {
			if w.interrupted.IsSet() {
				w.interrupted.UnSet()
				return false
			}
			continue
		}
		if err != nil {
			// ECHILD: nothing left to wait for.
			return false
		}

		job := w.jobs.byPid[pid]
		switch {
		case ws.Stopped():
			if job != nil {
				job.State = JobStopped
			}
		case ws.Signaled():
			w.recordExit(job, pid, 128+int(ws.Signal()))
		default:
			w.recordExit(job, pid, ws.ExitStatus())
		}
		return true
	}
}

func (w *Waiter) recordExit(job *Job, pid, status int) {
	if job == nil {
		return
	}
	job.memberDone(pid, status)
	if job.State == JobDone {
		w.finished.PushBack(job)
	}
}

// WaitNext blocks until some job transitions to Done, consumes it, and
// records its status in LastStatus. Returns false when nothing remains
// to wait for. Jobs that finished during earlier Wait calls are consumed
// first, oldest first.
func (w *Waiter) WaitNext() bool {
	for w.finished.Empty() {
		if w.jobs.AllDone() {
			return false
		}
		if !w.Wait() {
			return false
		}
	}
	job := w.finished.Front().(*Job)
	w.finished.PopFront()
	w.lastStatus = job.Status()
	w.jobs.Remove(job.ID)
	return true
}

// WaitAll blocks until every currently tracked job is Done, reaping each
// as it finishes.
func (w *Waiter) WaitAll() {
	for !w.jobs.AllDone() {
		if !w.Wait() {
			break
		}
	}
}
