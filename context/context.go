// Package context implements spec.md's C9 component: given an input
// line and a cursor byte offset, it re-tokenizes the line into spans
// tagged with role and byte range, for the editor's completion and
// highlighting use. It is a separate, simpler re-tokenizer from package
// parser — good enough to drive completion, never used to actually run
// anything.
package context

import (
	"strings"

	"github.com/google/shlex"
)

// Role classifies one Span of the re-tokenized line.
type Role int

const (
	Argv0 Role = iota
	Argument
	QuotedLiteral
	ParameterRef
	RedirectTarget
)

// Span is one token of the line, tagged with its byte range in the
// original input and its role.
type Span struct {
	Role       Role
	Start, End int // byte offsets, End exclusive
	Text       string
}

// Context is the result of re-tokenizing a line around a cursor.
type Context struct {
	// Words is the whitespace-split, expansion-unaware view shlex
	// produces; used only as a coarse fallback.
	Words []string
	Spans []Span
	// CurrentSpan indexes into Spans for the token the cursor sits
	// inside or immediately after, or -1 if the cursor is in
	// inter-token whitespace.
	CurrentSpan int
	// CurrentLiteral is the byte range of the text being completed —
	// normally equal to the current span's range, but empty (Start==End
	// == cursor) when the cursor sits in whitespace.
	CurrentLiteral [2]int
}

// Parse re-tokenizes input around cursor, per spec.md §4.7.
func Parse(input string, cursor int) Context {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(input) {
		cursor = len(input)
	}

	words, _ := shlex.Split(input)
	spans := tokenize(input)

	ctx := Context{Words: words, Spans: spans, CurrentSpan: -1}
	ctx.CurrentLiteral = [2]int{cursor, cursor}

	for i, s := range spans {
		if cursor >= s.Start && cursor <= s.End {
			ctx.CurrentSpan = i
			ctx.CurrentLiteral = [2]int{s.Start, s.End}
			break
		}
	}
	return ctx
}

// tokenize does a minimal whitespace/quote-aware scan of input, tagging
// the first token of every pipeline/command position as Argv0 and
// everything else as Argument, the word after a `<`/`>` operator as
// RedirectTarget, `$name`/`${name}` runs as ParameterRef, and quoted runs
// as QuotedLiteral. A run of operator characters (`|`, `&&`, `;`, `>>`,
// ...) is a token of its own. It never needs to fully understand the grammar the way
// package parser does — only enough to drive completion.
func tokenize(input string) []Span {
	var spans []Span
	i := 0
	n := len(input)
	expectArgv0 := true

	for i < n {
		for i < n && isBlank(input[i]) {
			i++
		}
		if i >= n {
			break
		}

		start := i
		role := Argument
		switch {
		case expectArgv0:
			role = Argv0
		case input[i] == '$':
			role = ParameterRef
		case len(spans) > 0 && isRedirectStart(spans[len(spans)-1].Text, 0):
			role = RedirectTarget
		case input[i] == '\'' || input[i] == '"':
			role = QuotedLiteral
		}

		quote := byte(0)
		if input[i] == '\'' || input[i] == '"' {
			quote = input[i]
			i++
		}
		operator := quote == 0 && isPipelineBreak(input[i])
		for i < n {
			if quote != 0 {
				if input[i] == quote {
					i++
					break
				}
			} else if operator {
				if !isPipelineBreak(input[i]) {
					break
				}
			} else if isBlank(input[i]) || isPipelineBreak(input[i]) {
				break
			}
			i++
		}

		spans = append(spans, Span{Role: role, Start: start, End: i, Text: input[start:i]})

		if role == RedirectTarget {
			expectArgv0 = false
		} else if isPipelineBreakToken(spans[len(spans)-1].Text) {
			expectArgv0 = true
		} else {
			expectArgv0 = false
		}
	}
	return spans
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' }

func isPipelineBreak(b byte) bool {
	return b == '|' || b == ';' || b == '&' || b == '<' || b == '>'
}

func isPipelineBreakToken(tok string) bool {
	switch tok {
	case "|", ";", "&", "&&", "||":
		return true
	}
	return false
}

func isRedirectStart(input string, i int) bool {
	return input[i] == '<' || input[i] == '>'
}

// InCommandPosition reports whether the current span is the Argv0 of a
// simple command, driving the PathTable-vs-filesystem completion choice
// in spec.md §4.7.
func (c Context) InCommandPosition() bool {
	return c.CurrentSpan >= 0 && c.Spans[c.CurrentSpan].Role == Argv0
}

// CurrentWord is the argv0 word of the line, used to decide whether
// completion should be restricted to directories (the `cd` special
// case).
func (c Context) CurrentWord() string {
	if len(c.Words) == 0 {
		return ""
	}
	return c.Words[0]
}

// LiteralPrefix returns the text of CurrentLiteral, the string
// completion candidates must be prefixed by.
func (c Context) LiteralPrefix(input string) string {
	start, end := c.CurrentLiteral[0], c.CurrentLiteral[1]
	if start < 0 || end > len(input) || start > end {
		return ""
	}
	return strings.Trim(input[start:end], "'\"")
}
