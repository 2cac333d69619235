//go:build unix

package interp

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// prepareSysProcAttr sets the SysProcAttr that places a freshly forked
// child into process group pgid, creating a new group (pgid 0) for the
// first command of a pipeline, per spec.md §4.4's "interactive: the
// parent additionally setpgid(child, pgid) on every child" — the child
// also requests its own group membership here so whichever of parent or
// child wins the race leaves the group correctly assigned.
func prepareSysProcAttr(cmd *exec.Cmd, pgid int) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    pgid,
	}
}

// joinProcessGroup is the parent-side half of the same racy-safe
// assignment prepareSysProcAttr performs from the child side.
func joinProcessGroup(pid, pgid int) {
	if pgid == 0 {
		pgid = pid
	}
	_ = unix.Setpgid(pid, pgid)
}

// interruptProcessGroup sends SIGINT to every process in pgid.
func interruptProcessGroup(pgid int) error {
	return unix.Kill(-pgid, unix.SIGINT)
}

// killProcessGroup sends SIGKILL to every process in pgid.
func killProcessGroup(pgid int) error {
	return unix.Kill(-pgid, unix.SIGKILL)
}
