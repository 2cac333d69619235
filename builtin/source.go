package builtin

import (
	"fmt"
	"os"

	"gosh/ast"
)

// Source implements `source FILE` / `. FILE`: reads and evaluates a file
// in the current shell, per spec.md §6.
func Source(ctx Context) ast.ExitStatus {
	if len(ctx.Argv) != 2 {
		fmt.Fprintln(ctx.Stderr, "source: usage: source FILE")
		return ast.ExitedWith(1)
	}
	data, err := os.ReadFile(ctx.Argv[1])
	if err != nil {
		fmt.Fprintf(ctx.Stderr, "source: %v\n", err)
		return ast.ExitedWith(1)
	}
	return ctx.Eval(string(data))
}
