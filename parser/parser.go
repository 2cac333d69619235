// Package parser turns shell source text into a gosh/ast.Ast command
// tree (spec.md component C4). It recognizes a compound list of terms
// separated by `;`, `&` or newlines, where each term is an and-or list
// of pipelines joined by `&&`/`||`, and each pipeline is a sequence of
// simple commands joined by `|`.
package parser

import (
	"strconv"

	"gosh/ast"
)

// Parser holds no state beyond what a single Parse call needs; it is
// reused only so that nested command substitutions can share the same
// recursion entry point without allocating a new type.
type Parser struct{}

// New returns a ready-to-use Parser.
func New() *Parser { return &Parser{} }

// Parse turns script into an Ast, or returns an *Error of Kind Empty
// (whitespace/comments only) or Kind Fatal (syntax error; no partial
// tree is ever returned alongside it).
func (p *Parser) Parse(script string) (ast.Ast, error) {
	terms, err := p.parseTerms(script)
	if err != nil {
		return ast.Ast{}, err
	}
	if len(terms) == 0 {
		return ast.Ast{}, &Error{Kind: Empty}
	}
	return ast.Ast{Terms: terms}, nil
}

// parseTerms is the shared implementation behind Parse and command
// substitution recursion ($(...) / `...`): both need "source substring
// to []ast.Term", but only the top-level call distinguishes Empty from
// a genuinely empty but valid substitution body (an empty $() is legal
// and simply yields no output).
func (p *Parser) parseTerms(script string) ([]ast.Term, error) {
	c := newCursor(script)
	var terms []ast.Term
	for {
		c.skipSeparators()
		c.skipBlanks()
		if c.eof() {
			break
		}
		termStart := c.pos
		pipelines, background, err := p.parseAndOrList(c)
		if err != nil {
			return nil, err
		}
		code := trimSpace(string(c.src[termStart:c.pos]))
		terms = append(terms, ast.Term{Code: code, Pipelines: pipelines, Background: background})

		c.skipBlanks()
		if c.eof() {
			break
		}
		if background {
			// The '&' already ended this term; what follows starts the
			// next one.
			continue
		}
		switch c.peek() {
		case ';', '\n':
			c.pos++
		case '&':
			// Consumed as the term's background marker inside
			// parseAndOrList; a lone trailing '&' is handled there, so
			// seeing one here again would be a second '&' in a row.
			return nil, p.errorf(c.pos, "unexpected '&'")
		default:
			return nil, p.errorf(c.pos, "unexpected token %q", string(c.peek()))
		}
	}
	return terms, nil
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// skipSeparators consumes blank lines, stray `;` and comment-only lines
// between terms, so that `Empty` is correctly reported for whitespace-
// and comment-only input.
func (c *cursor) skipSeparators() {
	for {
		c.skipBlanks()
		if !c.eof() && (c.peek() == '\n' || c.peek() == ';') {
			c.pos++
			continue
		}
		return
	}
}

// parseAndOrList parses one Term's pipelines (joined by && / ||) and
// reports whether the term ends in a background `&`.
func (p *Parser) parseAndOrList(c *cursor) ([]ast.Pipeline, bool, error) {
	var pipelines []ast.Pipeline
	runIf := ast.Always
	for {
		commands, err := p.parsePipeline(c, runIf)
		if err != nil {
			return nil, false, err
		}
		pipelines = append(pipelines, commands)

		c.skipBlanks()
		switch {
		case c.peek() == '&' && c.peekAt(1) == '&':
			c.pos += 2
			runIf = ast.Success
			c.skipBlanks()
		case c.peek() == '|' && c.peekAt(1) == '|':
			c.pos += 2
			runIf = ast.Failure
			c.skipBlanks()
		case c.peek() == '&':
			c.pos++
			return pipelines, true, nil
		default:
			return pipelines, false, nil
		}
	}
}

// parsePipeline parses one or more simple commands joined by `|`.
func (p *Parser) parsePipeline(c *cursor, runIf ast.RunIf) (ast.Pipeline, error) {
	var commands []ast.CommandNode
	for {
		cmd, err := p.parseSimpleCommand(c)
		if err != nil {
			return ast.Pipeline{}, err
		}
		commands = append(commands, cmd)

		c.skipBlanks()
		if c.peek() == '|' && c.peekAt(1) != '|' {
			c.pos++
			c.skipBlanks()
			continue
		}
		break
	}
	return ast.Pipeline{RunIf: runIf, Commands: commands}, nil
}

// parseSimpleCommand parses `assignment* word (word | redirection)*`.
func (p *Parser) parseSimpleCommand(c *cursor) (ast.CommandNode, error) {
	cmd := ast.SimpleCommand{}
	for {
		c.skipBlanks()
		if c.eof() || isTermBreak(c.peek()) {
			return nil, p.errorf(c.pos, "expected a command")
		}
		if fd, dir, ok := tryRedirection(c); ok {
			target, err := c.scanWord(p)
			if err != nil {
				return nil, err
			}
			cmd.Redirects = append(cmd.Redirects, ast.Redirection{Fd: fd, Direction: dir, Target: target})
			continue
		}
		if name, ok := tryAssignment(c); ok {
			init, err := p.parseInitializer(c)
			if err != nil {
				return nil, err
			}
			cmd.Assignments = append(cmd.Assignments, ast.Assignment{Name: name, Init: init})
			continue
		}
		break
	}

	for {
		c.skipBlanks()
		if c.eof() || isTermBreak(c.peek()) {
			break
		}
		if fd, dir, ok := tryRedirection(c); ok {
			target, err := c.scanWord(p)
			if err != nil {
				return nil, err
			}
			cmd.Redirects = append(cmd.Redirects, ast.Redirection{Fd: fd, Direction: dir, Target: target})
			continue
		}
		w, err := c.scanWord(p)
		if err != nil {
			return nil, err
		}
		cmd.Argv = append(cmd.Argv, w)
	}

	if len(cmd.Argv) == 0 && len(cmd.Assignments) == 0 {
		return nil, p.errorf(c.pos, "expected a command")
	}
	return cmd, nil
}

// parseInitializer parses the right-hand side of a prefix assignment:
// either a bare word or a parenthesized array literal.
func (p *Parser) parseInitializer(c *cursor) (ast.Initializer, error) {
	if c.peek() == '(' {
		c.pos++
		var values []ast.Word
		for {
			c.skipBlanks()
			if c.peek() == ')' {
				c.pos++
				break
			}
			if c.eof() {
				return nil, p.errorf(c.pos, "unterminated array initializer")
			}
			w, err := c.scanWord(p)
			if err != nil {
				return nil, err
			}
			values = append(values, w)
		}
		return ast.ArrayInit{Values: values}, nil
	}
	if c.eof() || isWordBreak(c.peek()) {
		return ast.StringInit{Value: ast.Word{Spans: []ast.Span{ast.Literal{Value: ""}}}}, nil
	}
	w, err := c.scanWord(p)
	if err != nil {
		return nil, err
	}
	return ast.StringInit{Value: w}, nil
}

func isTermBreak(r rune) bool {
	switch r {
	case ';', '&', '|', '\n':
		return true
	}
	return false
}

// tryRedirection recognizes `[n]<`, `[n]>` and `[n]>>` at the cursor,
// consuming it (and the following blanks) on success.
func tryRedirection(c *cursor) (fd int, dir ast.Direction, ok bool) {
	start := c.pos
	digitsStart := c.pos
	for !c.eof() && c.peek() >= '0' && c.peek() <= '9' {
		c.pos++
	}
	digitsEnd := c.pos
	hasDigits := digitsEnd > digitsStart

	switch {
	case c.peek() == '<':
		c.pos++
		dir = ast.Input
	case c.peek() == '>' && c.peekAt(1) == '>':
		c.pos += 2
		dir = ast.Append
	case c.peek() == '>':
		c.pos++
		dir = ast.Output
	default:
		c.pos = start
		return 0, 0, false
	}

	if hasDigits {
		n, _ := strconv.Atoi(string(c.src[digitsStart:digitsEnd]))
		fd = n
	} else {
		fd = ast.DefaultFd(dir)
	}
	c.skipBlanks()
	return fd, dir, true
}

// tryAssignment recognizes `NAME=` at the cursor (no surrounding
// whitespace in the source), consuming through the '=' on success.
func tryAssignment(c *cursor) (name string, ok bool) {
	if !isNameStart(c.peek()) {
		return "", false
	}
	start := c.pos
	for !c.eof() && isNameRune(c.peek()) {
		c.pos++
	}
	if c.peek() != '=' {
		c.pos = start
		return "", false
	}
	name = string(c.src[start:c.pos])
	c.pos++ // consume '='
	return name, true
}
