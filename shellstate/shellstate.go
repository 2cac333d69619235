// Package shellstate implements spec.md's C8 component: the single
// value owned by the entry point and threaded by mutable reference into
// every evaluator call, aggregating the value/frame store, path table,
// history, job table, directory stack, interactive flag and saved
// terminal attributes.
package shellstate

import (
	"io"
	"os"
	"os/user"

	"go.uber.org/zap"

	"gosh/history"
	"gosh/job"
	"gosh/pathtable"
	"gosh/vars"
)

// Shell is the C8 state container. It is passed explicitly to every
// evaluator function (package interp) and to every builtin (package
// builtin); there is no process-wide singleton.
type Shell struct {
	Vars *vars.Store
	Path *pathtable.Table
	Hist *history.History
	Jobs *job.Table

	dir      string
	dirStack []string

	lastStatus  int
	interactive bool

	// ShellPgid is captured once at startup (spec.md's invariant: the
	// shell's own process group equals its pid at startup).
	ShellPgid int

	// savedTermios holds the shell's own terminal attributes, snapshotted
	// when SetInteractive(true) is called, so a foreground job's wait
	// loop can restore them afterwards.
	savedTermios any

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Log *zap.SugaredLogger
}

// New returns a Shell with empty variable, path and job stores, no
// history (Hist is nil until the caller sets it) and the process's own
// standard streams.
func New() *Shell {
	return &Shell{
		Vars:   vars.NewStore(),
		Path:   pathtable.New(),
		Jobs:   job.NewTable(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    zap.NewNop().Sugar(),
	}
}

// Dir returns the shell's current working directory.
func (s *Shell) Dir() string { return s.dir }

// SetDir updates the shell's notion of its current working directory.
// It does not call os.Chdir; callers (builtin.Cd) are responsible for
// that and call SetDir only after the chdir succeeds.
func (s *Shell) SetDir(dir string) { s.dir = dir }

// Pushd pushes the current directory onto the stack before the caller
// changes to a new one, implementing spec.md §6's "Any other cd pushes
// the current directory before changing."
func (s *Shell) Pushd() {
	s.dirStack = append(s.dirStack, s.dir)
}

// Popd pops and returns the most recently pushed directory, implementing
// `cd -`. ok is false if the stack is empty.
func (s *Shell) Popd() (dir string, ok bool) {
	if len(s.dirStack) == 0 {
		return "", false
	}
	dir = s.dirStack[len(s.dirStack)-1]
	s.dirStack = s.dirStack[:len(s.dirStack)-1]
	return dir, true
}

// Get retrieves a variable, implementing expand.Environ.
func (s *Shell) Get(name string) (vars.Variable, bool) { return s.Vars.Get(name) }

// SetVar assigns a variable. Assigning PATH rehashes the path table,
// per spec.md's C8 contract and the PathTable consistency invariant.
func (s *Shell) SetVar(name string, v vars.Variable, isLocal bool) {
	s.Vars.Set(name, v, isLocal)
	if name == "PATH" {
		s.Path.Scan(v.AsStr())
	}
}

// IFS implements expand.Environ.
func (s *Shell) IFS() string {
	if v, ok := s.Vars.Get("IFS"); ok && v.IsSet() {
		return v.AsStr()
	}
	return " \t\n"
}

// Home implements expand.Environ.
func (s *Shell) Home() string {
	if v, ok := s.Vars.Get("HOME"); ok && v.IsSet() {
		return v.AsStr()
	}
	if u, err := user.Current(); err == nil {
		return u.HomeDir
	}
	return "/"
}

// HomeOf implements expand.Environ for `~user`.
func (s *Shell) HomeOf(name string) (string, bool) {
	u, err := user.Lookup(name)
	if err != nil {
		return "", false
	}
	return u.HomeDir, true
}

// LastStatus returns the most recently recorded pipeline exit code.
func (s *Shell) LastStatus() int { return s.lastStatus }

// SetLastStatus records the most recent pipeline exit code.
func (s *Shell) SetLastStatus(code int) { s.lastStatus = code }

// Interactive reports whether the shell is driving an interactive
// session.
func (s *Shell) Interactive() bool { return s.interactive }

// SetInteractive toggles interactive mode. Turning it on snapshots the
// controlling terminal's attributes for later restore, per spec.md
// §4.6; the platform-specific capture lives in shellstate_unix.go.
func (s *Shell) SetInteractive(v bool) {
	s.interactive = v
	if v {
		s.savedTermios = captureTermios()
		s.ShellPgid = os.Getpid()
	}
}

// SavedTermios returns the shell's own snapshotted terminal attributes.
func (s *Shell) SavedTermios() any { return s.savedTermios }

// AddAlias registers an alias.
func (s *Shell) AddAlias(name, body string) { s.Vars.AddAlias(name, body) }

// LookupAlias resolves an alias.
func (s *Shell) LookupAlias(name string) (string, bool) { return s.Vars.LookupAlias(name) }

// Export marks name for inclusion in a spawned child's environment.
func (s *Shell) Export(name string) { s.Vars.Export(name) }

// PathTable exposes the path table for interp's command lookup.
func (s *Shell) PathTable() *pathtable.Table { return s.Path }

// VarStore exposes the variable store for interp's assignment handling.
func (s *Shell) VarStore() *vars.Store { return s.Vars }

// JobTable exposes the job table for interp's pipeline bookkeeping.
func (s *Shell) JobTable() *job.Table { return s.Jobs }

// ShellPgidValue exposes the shell's own process group, captured at
// startup, for interp's terminal hand-off.
func (s *Shell) ShellPgidValue() int { return s.ShellPgid }
