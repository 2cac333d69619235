package interp

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"gosh/ast"
	"gosh/builtin"
	"gosh/expand"
	"gosh/vars"
)

// runCtx is the `{stdin, stdout, stderr, pgid, background, interactive}`
// context spec.md §4.4 passes to run_command.
type runCtx struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	pgid        int
	background  bool
	interactive bool
}

// runCommand implements spec.md §4.4's run_command: expand words, open
// redirections, and either dispatch a built-in in-process (returning
// ExitedWith) or fork-and-exec (returning Running(pid)). pid is the
// forked child's pid and is only meaningful when the status is Running.
func (r *Runner) runCommand(node ast.CommandNode, ctx runCtx) (ast.ExitStatus, int, error) {
	sc, ok := node.(ast.SimpleCommand)
	if !ok {
		return ast.ExitedWith(1), 0, fmt.Errorf("gosh: unsupported command form %T", node)
	}

	cfg := expand.Config{Env: r.Shell, Runner: r}

	argv, err := expand.Words(cfg, sc.Argv)
	if err != nil {
		return ast.ExitedWith(1), 0, err
	}

	env := make(map[string]string, len(sc.Assignments))
	for _, a := range sc.Assignments {
		val, err := assignmentValue(cfg, a)
		if err != nil {
			return ast.ExitedWith(1), 0, err
		}
		env[a.Name] = val
	}

	// A bare assignment prefix with no command word applies to the
	// shell's own variable store rather than a child environment. The
	// parser emits this shape for a command made only of assignments,
	// such as `FOO=bar`.
	if len(argv) == 0 {
		for name, val := range env {
			r.Shell.SetVar(name, vars.Variable{Value: vars.String(val)}, false)
		}
		return ast.ExitedWith(0), 0, nil
	}

	files, cleanup, err := r.openRedirections(sc.Redirects, cfg)
	if err != nil {
		fmt.Fprintln(r.Stderr, err)
		return ast.ExitedWith(1), 0, nil
	}
	defer cleanup()

	stdin, stdout, stderr := ctx.stdin, ctx.stdout, ctx.stderr
	if f, ok := files[0]; ok {
		stdin = f
	}
	if f, ok := files[1]; ok {
		stdout = f
	}
	if f, ok := files[2]; ok {
		stderr = f
	}

	name := argv[0]
	if body, ok := r.Shell.LookupAlias(name); ok {
		expanded, err := r.expandAlias(body, argv)
		if err != nil {
			return ast.ExitedWith(1), 0, err
		}
		argv = expanded
		name = argv[0]
	}

	if fn, ok := r.builtins.Lookup(name); ok {
		bctx := builtin.Context{
			Argv:   argv,
			Shell:  r.Shell,
			Stdin:  stdin,
			Stdout: stdout,
			Stderr: stderr,
			Eval:   r.evalString,
		}
		return fn(bctx), 0, nil
	}

	return r.forkExec(name, argv, env, stdin, stdout, stderr, ctx)
}

// assignmentValue resolves the right-hand side of an Assignment to the
// string that becomes a child's environment value. Array assignments are
// rejected per spec.md §4.4: "Array assignments are rejected with a
// diagnostic and exit 1."
func assignmentValue(cfg expand.Config, a ast.Assignment) (string, error) {
	switch init := a.Init.(type) {
	case ast.StringInit:
		words, err := expand.Word(cfg, init.Value)
		if err != nil {
			return "", err
		}
		if len(words) == 0 {
			return "", nil
		}
		return words[0], nil
	case ast.ArrayInit:
		return "", fmt.Errorf("gosh: %s: array assignment not permitted here", a.Name)
	default:
		return "", fmt.Errorf("gosh: unsupported initializer %T", init)
	}
}

// expandAlias substitutes argv[0] with the alias body's words and
// appends the rest of argv after them, implementing simple one-level
// alias expansion (no trailing-space "next word also expands" rule).
func (r *Runner) expandAlias(body string, argv []string) ([]string, error) {
	tree, err := r.parse(body)
	if err != nil {
		return nil, err
	}
	if len(tree.Terms) != 1 || len(tree.Terms[0].Pipelines) != 1 || len(tree.Terms[0].Pipelines[0].Commands) != 1 {
		return nil, fmt.Errorf("gosh: alias body must be a single simple command")
	}
	sc, ok := tree.Terms[0].Pipelines[0].Commands[0].(ast.SimpleCommand)
	if !ok {
		return nil, fmt.Errorf("gosh: alias body must be a simple command")
	}
	cfg := expand.Config{Env: r.Shell, Runner: r}
	words, err := expand.Words(cfg, sc.Argv)
	if err != nil {
		return nil, err
	}
	return append(words, argv[1:]...), nil
}

// evalString is the function value handed to builtins as Context.Eval.
func (r *Runner) evalString(script string) ast.ExitStatus {
	tree, err := r.parse(script)
	if err != nil {
		fmt.Fprintln(r.Stderr, err)
		return ast.ExitedWith(2)
	}
	return r.Eval(tree)
}

// forkExec resolves name in the path table and execs it, per spec.md
// §4.4's child-side contract. Platform-specific process-group placement
// lives in exec_unix.go's prepareSysProcAttr; the child's terminal
// attributes are not changed here.
func (r *Runner) forkExec(name string, argv []string, assign map[string]string, stdin io.Reader, stdout, stderr io.Writer, ctx runCtx) (ast.ExitStatus, int, error) {
	path, err := r.lookPath(name)
	if err != nil {
		fmt.Fprintf(r.Stderr, "gosh: %s: command not found\n", name)
		return ast.ExitedWith(1), 0, nil
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Dir = r.Shell.Dir()
	cmd.Env = childEnv(r.Shell.VarStore(), assign)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	prepareSysProcAttr(cmd, ctx.pgid)

	if err := cmd.Start(); err != nil {
		return execStartError(r.Stderr, name, err), 0, nil
	}

	pid := cmd.Process.Pid
	if ctx.interactive {
		joinProcessGroup(pid, ctx.pgid)
	}

	return ast.Running(pid), pid, nil
}

func execStartError(stderr io.Writer, name string, err error) ast.ExitStatus {
	if os.IsPermission(err) {
		fmt.Fprintf(stderr, "gosh: %s: permission denied (try chmod +x)\n", name)
	} else {
		fmt.Fprintf(stderr, "gosh: %s: %v\n", name, err)
	}
	return ast.ExitedWith(1)
}

// childEnv builds a child process's environment: every exported shell
// variable, overlaid with this command's own prefix assignments, which
// always win.
func childEnv(store *vars.Store, assign map[string]string) []string {
	out := make([]string, 0, len(assign)+4)
	for name, val := range assign {
		out = append(out, name+"="+val)
	}
	for _, name := range store.ExportedNames() {
		if _, overridden := assign[name]; overridden {
			continue
		}
		v, _ := store.Get(name)
		out = append(out, name+"="+v.AsStr())
	}
	return out
}
