package expand

import (
	"strconv"

	"gosh/ast"
)

// Param resolves a `$name` / `${name...}` reference per spec.md §4.2.
// The returned slice has length 1 in the minimum core; it is a slice
// (rather than a single string) only so that future `@`-like operators
// can return one element per positional argument without changing this
// function's signature.
//
// op is accepted and ignored: the minimum core always returns the raw
// value, as spec.md §4.2 specifies.
func Param(cfg Config, name string, op ast.ParamOp) ([]string, error) {
	if name == "?" {
		return []string{strconv.Itoa(cfg.Env.LastStatus())}, nil
	}
	v, ok := cfg.Env.Get(name)
	if !ok || !v.IsSet() {
		return nil, &UndefinedVariableError{Name: name}
	}
	return []string{v.AsStr()}, nil
}
