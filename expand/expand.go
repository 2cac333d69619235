package expand

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gosh/ast"
)

// DefaultIFS is used whenever $IFS is unset.
const DefaultIFS = " \t\n"

// UndefinedVariableError is returned when a Parameter span references a
// name with no definition. spec.md chooses strict behavior: expansion
// aborts the current command rather than silently substituting "".
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable '%s'", e.Name)
}

// BinaryOutputError is returned when a command substitution's stdout is
// not valid UTF-8.
type BinaryOutputError struct{}

func (e *BinaryOutputError) Error() string {
	return "command substitution output is not valid UTF-8"
}

// Config bundles the two collaborators word expansion needs.
type Config struct {
	Env    Environ
	Runner Runner
}

// fragment is one non-splitting-or-splitting piece produced by a span,
// used internally by the field-splitting algorithm in spec.md §4.2.
type fragment struct {
	text  string
	split bool // true if this fragment came from an unquoted expansion
}

// Words expands every Word in words into the final argument vector,
// concatenating each Word's own expansion into the overall result in
// order (spec.md's "ExpandWords" contract).
func Words(cfg Config, words []ast.Word) ([]string, error) {
	var out []string
	for _, w := range words {
		expanded, err := Word(cfg, w)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

// Word expands a single ast.Word into one or more arguments, applying
// IFS field-splitting to unquoted-expanded fragments and coalescing
// adjacent quoted/literal fragments into the same resulting argument,
// per spec.md §4.2.
func Word(cfg Config, w ast.Word) ([]string, error) {
	ifs := cfg.Env.IFS()
	if ifs == "" {
		// An empty IFS is replaced by DefaultIFS, so an explicitly empty
		// $IFS does not disable splitting here: it splits on blanks like
		// an unset one.
		ifs = DefaultIFS
	}

	var frags []fragment
	for _, span := range w.Spans {
		spanFrags, err := expandSpan(cfg, span)
		if err != nil {
			return nil, err
		}
		frags = append(frags, spanFrags...)
	}
	return split(frags, ifs), nil
}

// split runs the field-splitting algorithm described in spec.md §4.2:
// a non-splitting fragment is appended to a current-word buffer; a
// splitting fragment first flushes the buffer, then emits one argument
// per IFS-delimited piece, with the last piece starting a new buffer.
func split(frags []fragment, ifs string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	isIFS := func(r rune) bool { return strings.ContainsRune(ifs, r) }

	for _, f := range frags {
		if !f.split {
			current.WriteString(f.text)
			continue
		}
		flush()
		pieces := strings.FieldsFunc(f.text, isIFS)
		if len(pieces) == 0 {
			continue
		}
		for _, piece := range pieces[:len(pieces)-1] {
			words = append(words, piece)
		}
		current.WriteString(pieces[len(pieces)-1])
	}
	flush()

	if len(words) == 0 {
		return []string{""}
	}
	return words
}

// expandSpan turns one ast.Span into the fragment(s) it contributes.
func expandSpan(cfg Config, span ast.Span) ([]fragment, error) {
	switch s := span.(type) {
	case ast.Literal:
		return []fragment{{text: s.Value, split: false}}, nil

	case ast.LiteralChars:
		var b strings.Builder
		for _, ec := range s.Chars {
			b.WriteRune(ec.Ch)
		}
		return []fragment{{text: b.String(), split: false}}, nil

	case ast.Parameter:
		values, err := Param(cfg, s.Name, s.Op)
		if err != nil {
			return nil, err
		}
		out := make([]fragment, len(values))
		for i, v := range values {
			out[i] = fragment{text: v, split: !s.Quoted}
		}
		return out, nil

	case ast.Tilde:
		home, err := tildeHome(cfg, s.User)
		if err != nil {
			return nil, err
		}
		return []fragment{{text: home, split: false}}, nil

	case ast.Command:
		out, err := cfg.Runner.RunCommandSub(s.Body)
		if err != nil {
			return nil, err
		}
		trimmed := trimOneTrailingNewline(out)
		if !utf8.Valid(trimmed) {
			return nil, &BinaryOutputError{}
		}
		return []fragment{{text: string(trimmed), split: !s.Quoted}}, nil

	default:
		return nil, fmt.Errorf("expand: unsupported span type %T", span)
	}
}

// trimOneTrailingNewline removes exactly one trailing '\n' from b, per
// spec.md §4.2's command-substitution rule.
func trimOneTrailingNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		return b[:len(b)-1]
	}
	return b
}

func tildeHome(cfg Config, user string) (string, error) {
	if user == "" {
		return cfg.Env.Home(), nil
	}
	home, ok := cfg.Env.HomeOf(user)
	if !ok {
		// Unknown user: bash leaves the tilde expression literal; we do
		// the same rather than erroring, since no span carries "quoted
		// literal" fallback information at this point.
		return "~" + user, nil
	}
	return home, nil
}
