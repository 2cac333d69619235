package builtin

import (
	"strconv"

	"gosh/ast"
)

// Exit implements `exit [CODE]`, terminating the shell with status 0 or
// the given code, per spec.md §6.
func Exit(ctx Context) ast.ExitStatus {
	code := 0
	if len(ctx.Argv) > 1 {
		if n, err := strconv.Atoi(ctx.Argv[1]); err == nil {
			code = n
		}
	}
	return ast.Exit(code)
}
