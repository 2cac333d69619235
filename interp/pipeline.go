package interp

import (
	"fmt"
	"io"
	"os"

	"gosh/ast"
)

// runPipeline implements spec.md §4.4's run_pipeline: it walks commands
// with a peekable iterator, wiring an anonymous pipe between every
// adjacent pair, and runs each one via runCommand. The first forked
// child's pid becomes the pipeline's pgid; every later forked child is
// also placed into that group from the parent side, racy-safe against
// the child doing the same thing. If the final command is a built-in,
// its ExitedWith is the pipeline's status directly; if it was forked, a
// Job is created from the collected pids and waited on.
func (r *Runner) runPipeline(p ast.Pipeline, cmdText string, background bool) ast.ExitStatus {
	n := len(p.Commands)
	if n == 0 {
		return ast.ExitedWith(0)
	}

	var stdin io.Reader = r.Stdin
	var pgid int
	var pids []int
	var last ast.ExitStatus

	for i, cmdNode := range p.Commands {
		stdout := r.Stdout
		var pr *os.File
		var pw *os.File
		if i < n-1 {
			var err error
			pr, pw, err = os.Pipe()
			if err != nil {
				fmt.Fprintf(r.Stderr, "gosh: pipe: %v\n", err)
				return ast.ExitedWith(1)
			}
			stdout = pw
		}

		status, pid, err := r.runCommand(cmdNode, runCtx{
			stdin:       stdin,
			stdout:      stdout,
			stderr:      r.Stderr,
			pgid:        pgid,
			background:  background,
			interactive: r.Shell.Interactive(),
		})

		if pw != nil {
			pw.Close()
		}
		if closer, ok := stdin.(io.Closer); ok && stdin != r.Stdin {
			closer.Close()
		}

		if err != nil {
			fmt.Fprintln(r.Stderr, err)
			last = ast.ExitedWith(1)
		} else {
			last = status
		}

		if status.Kind == ast.KindRunning {
			if pgid == 0 {
				pgid = pid
			}
			pids = append(pids, pid)
		}

		stdin = pr
	}

	if last.Kind != ast.KindRunning {
		return last
	}

	j := r.Shell.JobTable().CreateJob(cmdText, pgid, pids)
	if background {
		fmt.Fprintf(r.Stdout, "[%d] %d\n", j.ID, pgid)
		return ast.ExitedWith(0)
	}
	return r.waitForeground(j)
}
