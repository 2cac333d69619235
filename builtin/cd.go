package builtin

import (
	"fmt"
	"os"

	"gosh/ast"
)

// Cd implements `cd [DIR | -]`, per spec.md §6: no argument goes to
// $HOME (or "/"); "-" pops the directory stack; any other argument
// pushes the current directory before changing.
func Cd(ctx Context) ast.ExitStatus {
	var target string
	pushFirst := true
	switch len(ctx.Argv) {
	case 1:
		target = ctx.Shell.Home()
		if target == "" {
			target = "/"
		}
	case 2:
		if ctx.Argv[1] == "-" {
			prev, ok := ctx.Shell.Popd()
			if !ok {
				fmt.Fprintln(ctx.Stderr, "cd: no previous directory")
				return ast.ExitedWith(1)
			}
			target = prev
			pushFirst = false
		} else {
			target = ctx.Argv[1]
		}
	default:
		fmt.Fprintln(ctx.Stderr, "cd: too many arguments")
		return ast.ExitedWith(1)
	}

	if pushFirst {
		ctx.Shell.Pushd()
	}

	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(ctx.Stderr, "cd: %v\n", err)
		return ast.ExitedWith(1)
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = target
	}
	ctx.Shell.SetDir(wd)
	return ast.ExitedWith(0)
}
