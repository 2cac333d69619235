// Package job implements spec.md's C6 component: the job table keyed by
// a monotonically assigned JobId, the per-pid ProcessState map, and the
// last-foreground-job pointer.
package job

// JobId is a small positive integer identifying a Job. Allocation
// reuses the lowest unused slot, matching spec.md's Data Model.
type JobId int

// State is a process's run state.
type State int

const (
	Running State = iota
	Completed
	Stopped
)

// ProcessState is the per-pid state spec.md's Data Model names. Code is
// valid only when State == Completed. A Stopped state carries no pid of
// its own; the stopped pid is the key it is stored under.
type ProcessState struct {
	State State
	Code  int // exit code, or -1 for a signal death
}

// Job is a pipeline tracked after its pids are spawned.
type Job struct {
	ID        JobId
	Pgid      int
	Cmd       string // verbatim source
	Pids      []int
	termAttrs any // saved termios, opaque to this package
}

// Table is the C6 job & process-state store.
type Table struct {
	jobs        map[JobId]*Job
	pidToJob    map[int]JobId
	pidState    map[int]ProcessState
	lastForeJob JobId // 0 means "none"
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		jobs:     make(map[JobId]*Job),
		pidToJob: make(map[int]JobId),
		pidState: make(map[int]ProcessState),
	}
}

// nextID returns the lowest unused positive JobId.
func (t *Table) nextID() JobId {
	for id := JobId(1); ; id++ {
		if _, used := t.jobs[id]; !used {
			return id
		}
	}
}

// CreateJob registers a freshly forked pipeline. It is called only once
// all of the pipeline's pids have been forked, per spec.md's Job
// lifecycle invariant.
func (t *Table) CreateJob(cmd string, pgid int, pids []int) *Job {
	j := &Job{ID: t.nextID(), Pgid: pgid, Cmd: cmd, Pids: append([]int(nil), pids...)}
	t.jobs[j.ID] = j
	for _, pid := range pids {
		t.pidToJob[pid] = j.ID
		t.pidState[pid] = ProcessState{State: Running}
	}
	return j
}

// DestroyJob removes a completed-and-reaped job from the id index and
// clears the last-foreground pointer if it referenced this job. Stale
// pid→job entries are tolerated (pid state remains authoritative) rather
// than eagerly cleaned.
func (t *Table) DestroyJob(id JobId) {
	delete(t.jobs, id)
	if t.lastForeJob == id {
		t.lastForeJob = 0
	}
}

// Job returns the job with the given id, if still tracked.
func (t *Table) Job(id JobId) (*Job, bool) {
	j, ok := t.jobs[id]
	return j, ok
}

// Jobs returns every currently tracked job.
func (t *Table) Jobs() []*Job {
	out := make([]*Job, 0, len(t.jobs))
	for _, j := range t.jobs {
		out = append(out, j)
	}
	return out
}

// JobOfPid resolves a pid to its job id, if the pid was ever registered.
func (t *Table) JobOfPid(pid int) (JobId, bool) {
	id, ok := t.pidToJob[pid]
	return id, ok
}

// SetProcessState records pid's latest state. A Completed state is
// never overwritten (spec.md's "not reset" invariant): once a pid is
// known Completed, further calls are no-ops.
func (t *Table) SetProcessState(pid int, st ProcessState) {
	if cur, ok := t.pidState[pid]; ok && cur.State == Completed {
		return
	}
	t.pidState[pid] = st
}

// GetProcessState returns the last known state of pid.
func (t *Table) GetProcessState(pid int) (ProcessState, bool) {
	st, ok := t.pidState[pid]
	return st, ok
}

// Completed reports whether every pid in the job has State == Completed.
func (t *Table) Completed(j *Job) bool {
	for _, pid := range j.Pids {
		st, ok := t.pidState[pid]
		if !ok || st.State != Completed {
			return false
		}
	}
	return true
}

// Stopped reports whether every pid in the job has State == Stopped.
func (t *Table) Stopped(j *Job) bool {
	for _, pid := range j.Pids {
		st, ok := t.pidState[pid]
		if !ok || st.State != Stopped {
			return false
		}
	}
	return true
}

// LastStatusCode returns the exit code of the job's last pid (the
// pipeline's own exit code equals its last command's exit code, per
// spec.md's "exit code of pipeline" law).
func (t *Table) LastStatusCode(j *Job) int {
	if len(j.Pids) == 0 {
		return 0
	}
	st := t.pidState[j.Pids[len(j.Pids)-1]]
	return st.Code
}

// SetLastForeground records j as the most recent foreground job.
func (t *Table) SetLastForeground(id JobId) { t.lastForeJob = id }

// LastForeground returns the most recent foreground job, if any is still
// tracked.
func (t *Table) LastForeground() (*Job, bool) {
	if t.lastForeJob == 0 {
		return nil, false
	}
	return t.Job(t.lastForeJob)
}

// SetTermAttrs stashes a job's saved terminal attributes (opaque to this
// package; shellstate knows the concrete type) for restore-on-resume.
func (j *Job) SetTermAttrs(v any) { j.termAttrs = v }

// TermAttrs returns the job's saved terminal attributes, if any.
func (j *Job) TermAttrs() any { return j.termAttrs }
