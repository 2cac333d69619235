// Package expand implements spec.md's C5 component: turning a command
// tree's Words into expanded argument vectors via parameter expansion,
// command substitution, tilde expansion and IFS field-splitting.
package expand

import (
	"gosh/ast"
	"gosh/vars"
)

// Environ is the minimal read surface expand needs from the shell's
// variable store. It mirrors the dependency-inversion shape of the
// teacher's own expand.Environ: the expander never imports package
// vars.Store directly, so the shell state container stays free to
// change its internal representation.
type Environ interface {
	// Get resolves a variable by name, walking local-then-global scope.
	Get(name string) (vars.Variable, bool)
	// IFS returns the current value of $IFS, or the default " \t\n" if
	// unset.
	IFS() string
	// LastStatus returns the last pipeline's exit code, for `$?`.
	LastStatus() int
	// Home returns $HOME (or the current user's home), for `~` expansion.
	Home() string
	// HomeOf returns the home directory of the named user, for `~user`.
	HomeOf(user string) (string, bool)
}

// Runner is the command-substitution collaborator the executor (package
// interp) provides. Word expansion never forks processes itself; it
// delegates to Runner so the pipe/fork/exec machinery stays in one
// place, per spec.md §4.4's "Subshell substitution" contract.
type Runner interface {
	// RunCommandSub runs body as a subshell and returns its raw standard
	// output. The expander trims exactly one trailing newline from it and
	// rejects output that is not valid UTF-8 (see BinaryOutputError).
	RunCommandSub(body []ast.Term) ([]byte, error)
}
