package interp

import (
	"bytes"

	"gosh/ast"
)

// RunCommandSub implements expand.Runner for `$(...)`/backtick command
// substitution. spec.md §4.4 describes this as "create a pipe, fork":
// the child runs body writing to the pipe's write end while the parent
// reads to EOF. Go cannot safely fork() a multi-threaded runtime (the
// child would inherit only the calling goroutine's thread, not the rest
// of the Go scheduler, and could deadlock on any runtime lock held by
// another thread at the moment of fork), so this substitution instead
// runs body in-process against a buffered Stdout, recursively through
// the same Runner. This is a deliberate adaptation: a real subshell
// forked via execve for an external command still goes through
// forkExec exactly as spec.md describes; only inline command
// substitution takes this in-process shortcut, and it still returns the
// same "read to EOF" contract the expander expects.
func (r *Runner) RunCommandSub(body []ast.Term) ([]byte, error) {
	var buf bytes.Buffer
	sub := &Runner{
		Shell:    r.Shell,
		parse:    r.parse,
		Stdin:    r.Stdin,
		Stdout:   &buf,
		Stderr:   r.Stderr,
		builtins: r.builtins,
	}
	sub.Eval(ast.Ast{Terms: body})
	return buf.Bytes(), nil
}
