//go:build unix

package interp

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"gosh/ast"
	"gosh/job"
)

// waitForeground implements spec.md §4.4's "Waiting for a pipeline —
// interactive" contract: transfer the controlling terminal to j's
// process group, loop waitpid(-1, WUNTRACED) updating per-pid state
// until the job is either completed or fully stopped, then give the
// terminal back to the shell.
func (r *Runner) waitForeground(j *job.Job) ast.ExitStatus {
	interactive := r.Shell.Interactive()
	if interactive {
		_ = unix.IoctlSetPointerInt(int(os.Stdin.Fd()), unix.TIOCSPGRP, j.Pgid)
	}

	jobs := r.Shell.JobTable()
	for !jobs.Completed(j) && !jobs.Stopped(j) {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WUNTRACED, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if err == unix.ECHILD {
				break
			}
			break
		}
		if _, tracked := jobs.JobOfPid(pid); !tracked {
			continue
		}
		jobs.SetProcessState(pid, processStateFromWaitStatus(ws))
	}

	if interactive {
		_ = unix.IoctlSetPointerInt(int(os.Stdin.Fd()), unix.TIOCSPGRP, r.Shell.ShellPgidValue())
		r.Shell.RestoreTermios()
	}

	if jobs.Stopped(j) {
		fmt.Fprintf(r.Stderr, "[%d] Stopped: %s\n", j.ID, j.Cmd)
		jobs.SetLastForeground(j.ID)
		return ast.Running(j.Pgid)
	}

	code := jobs.LastStatusCode(j)
	if jobs.Completed(j) {
		jobs.DestroyJob(j.ID)
	} else {
		jobs.SetLastForeground(j.ID)
	}
	return ast.ExitedWith(code)
}

func processStateFromWaitStatus(ws unix.WaitStatus) job.ProcessState {
	switch {
	case ws.Exited():
		return job.ProcessState{State: job.Completed, Code: ws.ExitStatus()}
	case ws.Signaled():
		return job.ProcessState{State: job.Completed, Code: -1}
	case ws.Stopped():
		return job.ProcessState{State: job.Stopped}
	default:
		return job.ProcessState{State: job.Running}
	}
}
