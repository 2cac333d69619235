//go:build unix

package interp

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/creack/pty"
	qt "github.com/frankban/quicktest"
	"golang.org/x/sys/unix"

	"gosh/ast"
	"gosh/parser"
	"gosh/shellstate"
)

// TestWaitForegroundReportsStoppedJob drives waitForeground against a
// real forked process and a real pseudo-terminal, per spec.md §4.4's
// "Waiting for a pipeline — interactive" contract: a foreground job
// that stops must be reported with "[id] Stopped: cmd", stay in the job
// table, and surface as ast.Running(pgid) rather than ast.ExitedWith, so
// a later `fg` could resume it.
func TestWaitForegroundReportsStoppedJob(t *testing.T) {
	c := qt.New(t)

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pseudo-terminal available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	oldStdin := os.Stdin
	os.Stdin = tty
	defer func() { os.Stdin = oldStdin }()

	sh := shellstate.New()
	sh.SetInteractive(true)
	defer sh.RestoreTermios()

	p := parser.New()
	var stdout, stderr bytes.Buffer
	r := New(sh, p.Parse, strings.NewReader(""), &stdout, &stderr)

	cmd := exec.Command("sleep", "5")
	cmd.Stdin, cmd.Stdout, cmd.Stderr = tty, tty, tty
	prepareSysProcAttr(cmd, 0)
	if err := cmd.Start(); err != nil {
		t.Skipf("could not start sleep: %v", err)
	}
	pid := cmd.Process.Pid
	pgid := pid
	joinProcessGroup(pid, pgid)

	defer func() {
		_ = unix.Kill(-pgid, unix.SIGKILL)
		_ = cmd.Wait()
	}()

	jobs := sh.JobTable()
	j := jobs.CreateJob("sleep 5", pgid, []int{pid})

	c.Assert(unix.Kill(-pgid, unix.SIGSTOP), qt.IsNil)

	status := r.waitForeground(j)

	c.Assert(status.Kind, qt.Equals, ast.KindRunning)
	c.Assert(status.Pgid, qt.Equals, pgid)
	c.Assert(jobs.Stopped(j), qt.IsTrue)

	_, tracked := jobs.Job(j.ID)
	c.Assert(tracked, qt.IsTrue)

	lastFg, ok := jobs.LastForeground()
	c.Assert(ok, qt.IsTrue)
	c.Assert(lastFg.ID, qt.Equals, j.ID)

	c.Assert(strings.Contains(stderr.String(), "Stopped"), qt.IsTrue)
}
