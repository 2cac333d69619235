package builtin

import (
	"fmt"
	"strings"

	"gosh/ast"
)

// Alias implements `alias NAME=BODY`, parsing a single
// `word=rest-of-string` argument and registering it, per spec.md §6.
func Alias(ctx Context) ast.ExitStatus {
	if len(ctx.Argv) != 2 {
		fmt.Fprintln(ctx.Stderr, "alias: usage: alias NAME=BODY")
		return ast.ExitedWith(1)
	}
	name, body, ok := strings.Cut(ctx.Argv[1], "=")
	if !ok {
		fmt.Fprintln(ctx.Stderr, "alias: expected NAME=BODY")
		return ast.ExitedWith(1)
	}
	ctx.Shell.AddAlias(name, body)
	return ast.ExitedWith(0)
}
