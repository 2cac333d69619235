package parser

import (
	"strings"
	"unicode"

	"gosh/ast"
)

// cursor is the low-level rune reader shared by every word/redirection
// scanning routine. It never needs to look more than one rune ahead.
type cursor struct {
	src []rune
	pos int
}

func newCursor(src string) *cursor {
	return &cursor{src: []rune(src)}
}

func (c *cursor) eof() bool { return c.pos >= len(c.src) }

func (c *cursor) peek() rune {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

func (c *cursor) peekAt(off int) rune {
	if c.pos+off >= len(c.src) {
		return 0
	}
	return c.src[c.pos+off]
}

func (c *cursor) next() rune {
	r := c.peek()
	c.pos++
	return r
}

func (c *cursor) skipBlanks() {
	for !c.eof() {
		switch c.peek() {
		case ' ', '\t':
			c.pos++
		case '#':
			for !c.eof() && c.peek() != '\n' {
				c.pos++
			}
		default:
			return
		}
	}
}

// isWordBreak reports whether r terminates a bare (unquoted) word.
func isWordBreak(r rune) bool {
	switch r {
	case 0, ' ', '\t', '\n', ';', '&', '|', '<', '>':
		return true
	}
	return false
}

func isNameStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// scanName reads a shell variable name starting at the cursor (assumed
// to be positioned on the first name rune, or on `?`).
func (c *cursor) scanName() string {
	if c.peek() == '?' {
		c.pos++
		return "?"
	}
	start := c.pos
	for !c.eof() && isNameRune(c.peek()) {
		c.pos++
	}
	return string(c.src[start:c.pos])
}

// scanWord reads one Word starting at the cursor, which must not be on
// blank/EOF/word-break input. Parameter and Command spans found inside a
// double-quoted part of the word are tagged Quoted by scanDoubleQuoted;
// those found outside quotes are not.
func (c *cursor) scanWord(p *Parser) (ast.Word, error) {
	var spans []ast.Span
	var lit strings.Builder
	flushLit := func() {
		if lit.Len() > 0 {
			spans = append(spans, ast.Literal{Value: lit.String()})
			lit.Reset()
		}
	}

	if c.peek() == '~' {
		c.pos++
		start := c.pos
		for !c.eof() && c.peek() != '/' && !isWordBreak(c.peek()) {
			c.pos++
		}
		spans = append(spans, ast.Tilde{User: string(c.src[start:c.pos])})
	}

loop:
	for !c.eof() {
		r := c.peek()
		switch {
		case isWordBreak(r):
			break loop
		case r == '\'':
			c.pos++
			start := c.pos
			for !c.eof() && c.peek() != '\'' {
				c.pos++
			}
			if c.eof() {
				return ast.Word{}, p.errorf(c.pos, "unterminated single-quoted string")
			}
			lit.WriteString(string(c.src[start:c.pos]))
			c.pos++ // closing '
		case r == '"':
			c.pos++
			sub, err := c.scanDoubleQuoted(p)
			if err != nil {
				return ast.Word{}, err
			}
			flushLit()
			spans = append(spans, sub...)
		case r == '$':
			flushLit()
			span, err := c.scanDollar(p, false)
			if err != nil {
				return ast.Word{}, err
			}
			spans = append(spans, span)
		case r == '`':
			flushLit()
			span, err := c.scanBacktick(p, false)
			if err != nil {
				return ast.Word{}, err
			}
			spans = append(spans, span)
		case r == '\\':
			c.pos++
			if c.eof() {
				lit.WriteRune('\\')
				break loop
			}
			lit.WriteRune(c.next())
		default:
			lit.WriteRune(c.next())
		}
	}
	flushLit()
	if len(spans) == 0 {
		spans = append(spans, ast.Literal{Value: ""})
	}
	return ast.Word{Spans: spans}, nil
}

// escapableInDouble is the set of characters a backslash keeps escaping
// inside a double-quoted string; any other character keeps its literal
// backslash per spec.md §4.1's edge case.
func escapableInDouble(r rune) bool {
	switch r {
	case '$', '`', '"', '\\', '\n':
		return true
	}
	return false
}

// scanDoubleQuoted reads the body of a double-quoted string (cursor is
// positioned just after the opening quote) and returns its spans, each
// tagged Quoted: true where applicable.
func (c *cursor) scanDoubleQuoted(p *Parser) ([]ast.Span, error) {
	var spans []ast.Span
	var chars []ast.EscapedRune
	flush := func() {
		if len(chars) > 0 {
			spans = append(spans, ast.LiteralChars{Chars: chars})
			chars = nil
		}
	}
	for {
		if c.eof() {
			return nil, p.errorf(c.pos, "unterminated double-quoted string")
		}
		r := c.peek()
		switch r {
		case '"':
			c.pos++
			flush()
			return spans, nil
		case '\\':
			c.pos++
			if c.eof() {
				chars = append(chars, ast.EscapedRune{Ch: '\\'})
				continue
			}
			nxt := c.peek()
			if escapableInDouble(nxt) {
				c.pos++
				chars = append(chars, ast.EscapedRune{Ch: nxt, Escaped: true})
			} else {
				chars = append(chars, ast.EscapedRune{Ch: '\\'})
			}
		case '$':
			flush()
			span, err := c.scanDollar(p, true)
			if err != nil {
				return nil, err
			}
			spans = append(spans, span)
		case '`':
			flush()
			span, err := c.scanBacktick(p, true)
			if err != nil {
				return nil, err
			}
			spans = append(spans, span)
		default:
			c.pos++
			chars = append(chars, ast.EscapedRune{Ch: r})
		}
	}
}

// scanDollar reads a `$name`, `$?`, `${name...}` or `$(...)` starting at
// the cursor positioned on '$'.
func (c *cursor) scanDollar(p *Parser, quoted bool) (ast.Span, error) {
	c.pos++ // consume '$'
	switch {
	case c.peek() == '(':
		return c.scanCommandSub(p, quoted)
	case c.peek() == '{':
		c.pos++
		name := c.scanName()
		// The op field accepts ':'-prefixed operator text and ignores it,
		// per spec.md §4.2; we must still consume it to find the closing
		// brace.
		for !c.eof() && c.peek() != '}' {
			c.pos++
		}
		if c.eof() {
			return nil, p.errorf(c.pos, "unterminated ${%s", name)
		}
		c.pos++ // consume '}'
		return ast.Parameter{Name: name, Op: ast.OpNone, Quoted: quoted}, nil
	case isNameStart(c.peek()) || c.peek() == '?':
		name := c.scanName()
		return ast.Parameter{Name: name, Op: ast.OpNone, Quoted: quoted}, nil
	default:
		// A lone '$' with nothing recognizable after it is a literal '$'.
		return ast.Literal{Value: "$"}, nil
	}
}

// scanCommandSub reads `$(...)`, cursor positioned on the opening '('.
func (c *cursor) scanCommandSub(p *Parser, quoted bool) (ast.Span, error) {
	c.pos++ // consume '('
	depth := 1
	start := c.pos
	for !c.eof() && depth > 0 {
		switch c.peek() {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				break
			}
		case '\'':
			c.pos++
			for !c.eof() && c.peek() != '\'' {
				c.pos++
			}
		case '"':
			c.pos++
			for !c.eof() && c.peek() != '"' {
				if c.peek() == '\\' {
					c.pos++
				}
				c.pos++
			}
		}
		if depth == 0 {
			break
		}
		c.pos++
	}
	if c.eof() && depth > 0 {
		return nil, p.errorf(c.pos, "unterminated command substitution")
	}
	body := string(c.src[start:c.pos])
	c.pos++ // consume ')'
	terms, err := p.parseTerms(body)
	if err != nil {
		return nil, err
	}
	return ast.Command{Body: terms, Quoted: quoted}, nil
}

// scanBacktick reads `` `...` `` backtick command substitution, cursor
// positioned on the opening backtick.
func (c *cursor) scanBacktick(p *Parser, quoted bool) (ast.Span, error) {
	c.pos++ // consume opening `
	start := c.pos
	for !c.eof() && c.peek() != '`' {
		if c.peek() == '\\' && c.peekAt(1) == '`' {
			c.pos++
		}
		c.pos++
	}
	if c.eof() {
		return nil, p.errorf(c.pos, "unterminated backtick command substitution")
	}
	body := string(c.src[start:c.pos])
	c.pos++ // consume closing `
	terms, err := p.parseTerms(body)
	if err != nil {
		return nil, err
	}
	return ast.Command{Body: terms, Quoted: quoted}, nil
}
