package builtin

import (
	"strings"

	"gosh/ast"
)

// Eval implements `eval WORDS...`: joins its arguments with spaces and
// re-enters the evaluator on the result, per spec.md §6.
func Eval(ctx Context) ast.ExitStatus {
	if len(ctx.Argv) < 2 {
		return ast.ExitedWith(0)
	}
	return ctx.Eval(strings.Join(ctx.Argv[1:], " "))
}
