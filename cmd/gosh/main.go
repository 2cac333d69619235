// Command gosh is the entry point for the shell: it wires the parser,
// expander, executor and (when stdin is a TTY) the line editor together
// into the single long-lived process spec.md describes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"gosh/ast"
	"gosh/editor"
	"gosh/history"
	"gosh/interp"
	"gosh/parser"
	"gosh/shellstate"
	"gosh/vars"
)

var (
	command = flag.String("c", "", "command to execute, then exit")
	noRC    = flag.Bool("norc", false, "do not source the startup file")
	rcFile  = flag.String("rcfile", "", "startup file to source instead of $HOME/.goshrc")
	noLog   = flag.Bool("nolog", false, "disable internal debug logging")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	sh := shellstate.New()
	importEnviron(sh)

	logPath := filepath.Join(sh.Home(), ".gosh.log")
	log := newLogger(logPath, *noLog)
	defer log.Sync()
	sh.Log = log

	histPath := filepath.Join(sh.Home(), ".gosh_history")
	sh.Hist = history.Open(histPath, func(lineNo int) {
		fmt.Fprintf(os.Stderr, "gosh: %s:%d: malformed history entry, skipping malformed lines\n", histPath, lineNo)
	})

	p := parser.New()
	rn := interp.New(sh, p.Parse, os.Stdin, os.Stdout, os.Stderr)
	eval := func(script string) ast.ExitStatus { return evalScript(rn, p, script) }

	ignoreJobControlSignals()

	if !*noRC {
		sourceRC(eval, *rcFile, sh.Home())
	}

	if *command != "" {
		status := eval(*command)
		return exitCode(status)
	}

	if flag.NArg() > 0 {
		return runScriptFiles(eval, flag.Args())
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return runInteractive(sh, eval)
	}
	return runScript(eval, os.Stdin)
}

func newLogger(path string, disabled bool) *zap.SugaredLogger {
	if disabled {
		return zap.NewNop().Sugar()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// importEnviron seeds the shell's variable store from the inherited
// process environment and marks every name exported, per spec.md §6's
// "inherited at startup" contract.
func importEnviron(sh *shellstate.Shell) {
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				name, val := kv[:i], kv[i+1:]
				sh.SetVar(name, vars.Variable{Value: vars.String(val)}, false)
				sh.Export(name)
				break
			}
		}
	}
	if wd, err := os.Getwd(); err == nil {
		sh.SetDir(wd)
	}
}

// ignoreJobControlSignals implements spec.md §6's "shell ignores SIGINT,
// SIGQUIT, SIGTSTP, SIGTTIN, SIGTTOU" so that terminal-generated signals
// never kill the shell itself; foreground jobs still receive them via
// their own process group.
func ignoreJobControlSignals() {
	signal.Ignore(unix.SIGINT, unix.SIGQUIT, unix.SIGTSTP, unix.SIGTTIN, unix.SIGTTOU)
}

func sourceRC(eval func(string) ast.ExitStatus, explicit, home string) {
	path := explicit
	if path == "" {
		path = filepath.Join(home, ".goshrc")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	eval(string(data))
}

// evalScript parses script with p and runs it through rn, translating an
// empty-input parse result into a no-op success and a genuine syntax
// error into a diagnostic plus exit 2, per spec.md §4.2's parse contract.
func evalScript(rn *interp.Runner, p *parser.Parser, script string) ast.ExitStatus {
	tree, err := p.Parse(script)
	if err != nil {
		if pe, ok := err.(*parser.Error); ok && pe.Kind == parser.Empty {
			return ast.ExitedWith(0)
		}
		fmt.Fprintln(os.Stderr, err)
		return ast.ExitedWith(2)
	}
	return rn.Eval(tree)
}

func runScriptFiles(eval func(string) ast.ExitStatus, paths []string) int {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gosh: %s: %v\n", path, err)
			return 1
		}
		status := eval(string(data))
		if status.Kind == ast.KindExit {
			return status.Code
		}
		if !status.Success() {
			return exitCode(status)
		}
	}
	return 0
}

func runScript(eval func(string) ast.ExitStatus, stdin *os.File) int {
	scanner := bufio.NewScanner(stdin)
	var status ast.ExitStatus
	for scanner.Scan() {
		status = eval(scanner.Text())
		if status.Kind == ast.KindExit {
			return status.Code
		}
	}
	return exitCode(status)
}

func runInteractive(sh *shellstate.Shell, eval func(string) ast.ExitStatus) int {
	sh.SetInteractive(true)
	defer sh.RestoreTermios()

	var final int
	m := editor.New(sh.Hist, sh.Path, sh.Dir, sh.Home, func(line string) ast.ExitStatus {
		status := eval(line)
		final = exitCode(status)
		return status
	}, sh.Log)

	if err := editor.Run(m); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return final
}

func exitCode(status ast.ExitStatus) int {
	if status.Kind == ast.KindExitedWith || status.Kind == ast.KindExit {
		return status.Code
	}
	return 0
}
