package builtin

import (
	"fmt"

	"gosh/ast"
)

// Export implements `export NAME`, marking name for export to child
// environments, per spec.md §6.
func Export(ctx Context) ast.ExitStatus {
	if len(ctx.Argv) < 2 {
		fmt.Fprintln(ctx.Stderr, "export: usage: export NAME...")
		return ast.ExitedWith(1)
	}
	for _, name := range ctx.Argv[1:] {
		ctx.Shell.Export(name)
	}
	return ast.ExitedWith(0)
}
