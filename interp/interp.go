// Package interp implements spec.md's C7 component: it walks an ast.Ast,
// wiring pipelines, process groups and redirections, and returns the
// ast.ExitStatus of the last thing it ran. It is the only package that
// forks/execs external programs.
package interp

import (
	"io"

	"gosh/ast"
	"gosh/builtin"
	"gosh/expand"
	"gosh/job"
	"gosh/pathtable"
	"gosh/vars"
)

// Shell is the subset of shellstate.Shell the executor needs. Defined
// here (mirroring builtin.Shell) so this package doesn't import
// shellstate and invert the dependency direction spec.md's C8 implies.
type Shell interface {
	expand.Environ
	builtin.Shell

	Dir() string
	SetDir(dir string)
	Interactive() bool
	SetLastStatus(code int)

	LookupAlias(name string) (string, bool)

	PathTable() *pathtable.Table
	VarStore() *vars.Store
	JobTable() *job.Table
	RestoreTermios()
	ShellPgidValue() int
}

// Runner evaluates an ast.Ast against a Shell. It holds the Shell, the
// standard streams, the parse function and the builtin registry. Eval
// never changes the stream fields: redirections and pipeline stages hand
// each command its own streams, and command substitution runs a separate
// Runner with its own Stdout.
type Runner struct {
	Shell Shell

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// parse re-enters package parser for `source`, `eval` and alias-body
	// expansion. It is a plain function value so this package never
	// imports package parser, keeping the dependency direction the same
	// shape as builtin.Context.Eval.
	parse func(script string) (ast.Ast, error)

	builtins builtin.Registry
}

// New returns a Runner with the default builtin registry wired in. parse
// is normally parser.New().Parse.
func New(shell Shell, parse func(string) (ast.Ast, error), stdin io.Reader, stdout, stderr io.Writer) *Runner {
	return &Runner{
		Shell:    shell,
		parse:    parse,
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		builtins: builtin.Default(),
	}
}

// Eval runs every Term of tree in order, honoring each Term's RunIf
// chain against the previous pipeline's exit code, and returns the
// status of the last thing executed. It stops early if a Term's
// pipeline requests shell termination (the `exit` builtin).
func (r *Runner) Eval(tree ast.Ast) ast.ExitStatus {
	status := ast.ExitedWith(0)
	for _, term := range tree.Terms {
		status = r.runTerm(term)
		if status.Kind == ast.KindExit {
			return status
		}
	}
	return status
}

func (r *Runner) runTerm(term ast.Term) ast.ExitStatus {
	var status ast.ExitStatus
	for _, pipeline := range term.Pipelines {
		switch pipeline.RunIf {
		case ast.Success:
			if !status.Success() {
				continue
			}
		case ast.Failure:
			if status.Success() {
				continue
			}
		}
		status = r.runPipeline(pipeline, term.Code, term.Background)
		if status.Kind == ast.KindExit {
			return status
		}
		if status.Kind == ast.KindExitedWith {
			r.Shell.SetLastStatus(status.Code)
		}
	}
	return status
}
